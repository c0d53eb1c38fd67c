package cli

import (
	"errors"
	"strings"

	"coursecraft-cli/internal/genclient"

	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var req genclient.CoursePlanRequest
	var out string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a course plan (lesson titles, objectives, topic skeletons)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.CourseName) == "" {
				return writeErr(cmd, errors.New("missing --name"))
			}
			if req.NumberOfLessons <= 0 {
				return writeErr(cmd, errors.New("--lessons must be positive"))
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			plan, err := c.GenerateCoursePlan(cmd.Context(), req)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out = strings.TrimSpace(out); out != "" {
				if err := writeDocFile(out, plan); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"written": out, "lessons": len(plan.Course)},
					"_hints": []string{"coursecraft lessons --plan " + out},
				})
			}
			return writeOut(cmd, app, map[string]any{"data": plan})
		},
	}

	cmd.Flags().StringVar(&req.CourseName, "name", "", "Course name")
	cmd.Flags().StringVar(&req.CourseDescription, "description", "", "Course description")
	cmd.Flags().StringVar(&req.Prerequisites, "prerequisites", "", "Prerequisites")
	cmd.Flags().IntVar(&req.NumberOfLessons, "lessons", 0, "Number of lessons")
	cmd.Flags().StringVar(&out, "out", "", "Write the plan to this file (json or yaml) instead of stdout")
	return cmd
}

func newLessonsCmd(app *App) *cobra.Command {
	var planPath string
	var out string

	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Generate full lessons for a course plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(planPath, cmd.InOrStdin())
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			docs, err := c.GenerateLessons(cmd.Context(), plan)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Assign node ids now so later edits can address nodes stably.
			docs = genclient.LessonsFromOutline(genclient.OutlineFromLessons(docs))

			if out = strings.TrimSpace(out); out != "" {
				if err := writeDocFile(out, docs); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"written": out, "lessons": len(docs)},
					"_hints": []string{"coursecraft edit " + out},
				})
			}
			return writeOut(cmd, app, map[string]any{"data": docs})
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Plan file from `coursecraft plan` (json or yaml; - for stdin)")
	cmd.Flags().StringVar(&out, "out", "", "Write the lessons to this file (json or yaml) instead of stdout")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}
