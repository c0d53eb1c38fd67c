package cli

import (
	"strings"

	"coursecraft-cli/internal/export"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var lesson string
	var toDir string
	var all bool
	var overwrite bool
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export <lessons-file>",
		Short: "Export lessons as Markdown",
		Example: strings.TrimSpace(`
  coursecraft export lessons.json --lesson 0 --to out/
  coursecraft export lessons.json --all --to out/
  coursecraft export lessons.json --lesson 1 --stdout
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := readOutline(args[0], cmd.InOrStdin())
			if err != nil {
				return writeErr(cmd, err)
			}
			if toDir = strings.TrimSpace(toDir); toDir == "" {
				toDir = app.cfg.Export.Dir
			}
			opt := export.WriteOptions{Overwrite: overwrite}

			if all {
				res, err := export.WriteOutline(o, toDir, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			l, err := findLesson(o, lesson)
			if err != nil {
				return writeErr(cmd, err)
			}
			if stdout {
				_, err := cmd.OutOrStdout().Write([]byte(export.RenderLessonMarkdown(l)))
				return err
			}
			res, err := export.WriteLesson(l, toDir, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&lesson, "lesson", "0", "Lesson index or id")
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (default: export.dir)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every lesson")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the Markdown instead of writing a file")
	return cmd
}

// findLesson resolves a lesson by id or by lesson index.
func findLesson(o model.Outline, ref string) (*model.Lesson, error) {
	ref = strings.TrimSpace(ref)
	if i := outline.LessonIndex(o, ref); i >= 0 {
		return o.Lessons[i], nil
	}
	p, err := model.ParsePath(ref)
	if err != nil {
		return nil, &outline.AddressingError{NodeID: ref, Reason: "no such lesson"}
	}
	if p.Kind() != model.NodeLesson || p.Lesson >= len(o.Lessons) {
		return nil, &outline.AddressingError{Path: &p, Reason: "no such lesson"}
	}
	return o.Lessons[p.Lesson], nil
}
