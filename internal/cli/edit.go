package cli

import (
	"context"
	"errors"
	"strings"

	"coursecraft-cli/internal/genclient"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/session"
	"coursecraft-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var req genclient.CoursePlanRequest
	var planPath string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive outline editor",
		Long: strings.TrimSpace(`
Opens a lessons file in the editor. A course plan (a file from "coursecraft
plan", or --plan) opens in plan mode: lessons, topics and subtopics can be
reordered, and "g" generates the lessons from the reordered plan. Without a
file, a new plan is generated first from --name/--description/--prerequisites/
--lessons and opened in plan mode.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}

			var f courseFile
			switch {
			case strings.TrimSpace(planPath) != "":
				if len(args) == 1 {
					return writeErr(cmd, errors.New("pass either a file or --plan, not both"))
				}
				plan, err := readPlan(planPath, cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				f = courseFile{Outline: genclient.OutlineFromPlan(plan), Plan: true}
			case len(args) == 1:
				f, err = readCourse(args[0], cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
			default:
				if strings.TrimSpace(req.CourseName) == "" {
					return writeErr(cmd, errors.New("missing file (or --name to generate a course)"))
				}
				plan, err := c.GenerateCoursePlan(cmd.Context(), req)
				if err != nil {
					return writeErr(cmd, err)
				}
				f = courseFile{Outline: genclient.OutlineFromPlan(plan), Plan: true}
			}

			// An empty outline still opens; the editor shows the empty state.
			sess, err := session.New(f.Outline, c, app.log)
			var ve *session.ValidationError
			if err != nil && !errors.As(err, &ve) {
				return writeErr(cmd, err)
			}
			opts := tui.Options{
				ExportDir:     app.cfg.Export.Dir,
				MarkdownStyle: app.cfg.TUI.MarkdownStyle,
				Logger:        app.log,
			}
			if f.Plan {
				opts.GenerateLessons = lessonGenerator(c)
			}
			return tui.Run(cmd.Context(), sess, opts)
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Course plan file to reorder before generating lessons")
	cmd.Flags().StringVar(&req.CourseName, "name", "", "Course name (generate a new course)")
	cmd.Flags().StringVar(&req.CourseDescription, "description", "", "Course description")
	cmd.Flags().StringVar(&req.Prerequisites, "prerequisites", "", "Prerequisites")
	cmd.Flags().IntVar(&req.NumberOfLessons, "lessons", 3, "Number of lessons")
	return cmd
}

// lessonGenerator fills a (possibly reordered) plan outline with content.
func lessonGenerator(c *genclient.Client) func(context.Context, model.Outline) (model.Outline, error) {
	return func(ctx context.Context, plan model.Outline) (model.Outline, error) {
		docs, err := c.GenerateLessons(ctx, genclient.PlanFromOutline(plan))
		if err != nil {
			return model.Outline{}, err
		}
		return genclient.OutlineFromLessons(docs), nil
	}
}
