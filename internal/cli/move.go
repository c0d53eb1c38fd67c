package cli

import (
	"fmt"
	"strings"

	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
	"coursecraft-cli/internal/session"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "move <file> <from-path> <to-path>",
		Short: "Move a lesson, topic or subtopic to another position",
		Long: strings.TrimSpace(`
The file is a lessons file or a course plan from "coursecraft plan"; a plan
keeps its plan form, so it can be reordered before lessons are generated.
Paths are dotted indices: "L" for a lesson, "L.T" for a topic, "L.T.S" for a
subtopic. Both paths must address the same level. Topics move within their
lesson; subtopics may move to another topic of the same lesson, and "L.T.n"
with n equal to that topic's subtopic count appends.
`),
		Example: strings.TrimSpace(`
  coursecraft move lessons.json 2 0
  coursecraft move lessons.json 0.1.0 0.2.3 --write
  coursecraft move plan.json 1 0 --write && coursecraft lessons --plan plan.json
`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readCourse(args[0], cmd.InOrStdin())
			if err != nil {
				return writeErr(cmd, err)
			}
			from, err := model.ParsePath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := model.ParsePath(args[2])
			if err != nil {
				return writeErr(cmd, err)
			}

			o := f.Outline
			s, err := session.New(o, nil, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, ok := outline.NodeAt(o, from)
			if !ok {
				return writeErr(cmd, &outline.AddressingError{Path: &from, Reason: "path does not resolve"})
			}
			if err := applyMove(s, from, to); err != nil {
				return writeErr(cmd, err)
			}

			next := s.Snapshot()
			_, at, _ := outline.Find(next, n.ID())
			doc := f.doc(next)
			if write {
				if args[0] == "-" {
					return writeErr(cmd, fmt.Errorf("--write needs a file, not stdin"))
				}
				if err := writeDocFile(args[0], doc); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": doc,
				"meta": map[string]any{
					"node": n.ID(), "kind": n.Kind, "from": from.String(), "to": at.String(),
					"plan": f.Plan, "counts": counts(next),
				},
			})
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Rewrite the file in place")
	return cmd
}

func counts(o model.Outline) map[string]int {
	lessons, topics, subtopics := outline.Count(o)
	return map[string]int{"lessons": lessons, "topics": topics, "subtopics": subtopics}
}

func applyMove(s *session.Session, from, to model.Path) error {
	if from.Kind() != to.Kind() {
		return &session.ValidationError{Field: "to", Reason: fmt.Sprintf("cannot move a %s to a %s position", from.Kind(), to.Kind())}
	}
	if from.Kind() != model.NodeLesson && from.Lesson != to.Lesson {
		return &session.ValidationError{Field: "to", Reason: fmt.Sprintf("%ss stay within their lesson", from.Kind())}
	}
	switch from.Kind() {
	case model.NodeLesson:
		return s.MoveLesson(from.Lesson, to.Lesson)
	case model.NodeTopic:
		return s.MoveTopic(from.Lesson, from.Topic, to.Topic)
	default:
		return s.MoveSubtopic(from.Lesson, from.Topic, to.Topic, from.Subtopic, to.Subtopic)
	}
}
