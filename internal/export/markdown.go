package export

import (
	"bytes"
	"fmt"

	"coursecraft-cli/internal/model"
)

// RenderLessonMarkdown renders one lesson as a standalone Markdown document:
// title, description, learning objectives, then numbered topics and subtopics.
func RenderLessonMarkdown(l *model.Lesson) string {
	if l == nil {
		return ""
	}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	fmt.Fprintf(&buf, "%s\n\n", l.Description)

	buf.WriteString("## Learning Objectives\n")
	for _, obj := range l.LearningObjectives {
		fmt.Fprintf(&buf, "- %s\n", obj)
	}

	buf.WriteString("\n## Topics\n")
	for i, t := range l.Topics {
		fmt.Fprintf(&buf, "### %d. %s\n", i+1, t.Title)
		fmt.Fprintf(&buf, "%s\n\n", t.Content)
		for j, s := range t.Subtopics {
			fmt.Fprintf(&buf, "#### %d.%d %s\n", i+1, j+1, s.Title)
			fmt.Fprintf(&buf, "%s\n\n", s.Content)
		}
	}
	return buf.String()
}
