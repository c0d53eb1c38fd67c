package tui

import (
	"fmt"
	"strings"

	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	minLessonPaneWidth = 24
	footerHeight       = 2
)

func (m *editorModel) setSize(w, h int) {
	m.width, m.height = w, h
	lw, ow, listH, _ := m.layout()
	m.lessons.SetSize(lw, listH)
	m.outline.SetSize(ow, listH/2)
	m.help.Width = w
}

// layout splits the screen: lessons on the left, outline above the preview on
// the right. Sizes exclude pane borders.
func (m editorModel) layout() (lessonW, outlineW, bodyH, previewH int) {
	lessonW = m.width / 3
	if lessonW < minLessonPaneWidth {
		lessonW = minLessonPaneWidth
	}
	outlineW = m.width - lessonW - 4
	if outlineW < 10 {
		outlineW = 10
	}
	bodyH = m.height - footerHeight - 2
	if bodyH < 4 {
		bodyH = 4
	}
	previewH = bodyH - bodyH/2 - 2
	if previewH < 1 {
		previewH = 1
	}
	return lessonW, outlineW, bodyH, previewH
}

func (m editorModel) View() string {
	if len(m.sess.Snapshot().Lessons) == 0 {
		return styleMuted().Render("No lessons available.") + "\n\n" + m.help.View(m.keys)
	}

	lw, ow, bodyH, previewH := m.layout()

	left := stylePane(m.pane == paneLessons).Render(fitPane(m.lessons.View(), lw, bodyH))

	top := stylePane(m.pane == paneOutline).Render(fitPane(m.outline.View(), ow, bodyH/2))
	preview := stylePane(false).Render(fitPane(m.preview(ow), ow, previewH))
	right := lipgloss.JoinVertical(lipgloss.Left, top, preview)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return body + "\n" + m.footer()
}

func (m editorModel) footer() string {
	var b strings.Builder
	if m.minibuffer != "" {
		st := styleMuted()
		if m.minibufferErr {
			st = styleError()
		}
		msg := m.minibuffer
		if m.generating {
			msg = *m.frame + " " + msg
		}
		b.WriteString(st.Render(xansi.Truncate(msg, m.width, "…")))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// preview renders the focused node's text, plus fact-check results when the
// topic has visible ones.
func (m editorModel) preview(width int) string {
	r, ok := m.focusedRow()
	if !ok {
		return ""
	}
	n, _, ok := outline.Find(m.sess.Snapshot(), r.id)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleHeading().Render(n.Title()))
	b.WriteString("\n")
	if n.Kind == model.NodeLesson {
		var md strings.Builder
		md.WriteString(n.Lesson.Description)
		if len(n.Lesson.LearningObjectives) > 0 {
			md.WriteString("\n\n**Learning objectives**\n\n")
			for _, obj := range n.Lesson.LearningObjectives {
				md.WriteString("- " + obj + "\n")
			}
		}
		b.WriteString(renderMarkdown(md.String(), width, m.mdStyle))
	} else {
		b.WriteString(renderMarkdown(n.Content(), width, m.mdStyle))
	}

	tr := m.sess.Tracker()
	for _, kind := range []model.OpKind{model.OpRegenerate, model.OpExpand, model.OpShorten, model.OpFactCheck} {
		if err := tr.Err(model.OperationKey{NodeID: r.id, Kind: kind}); err != nil {
			b.WriteString("\n")
			b.WriteString(styleError().Render(err.Error()))
		}
	}

	if n.Kind == model.NodeTopic && tr.FactsVisible(r.id) {
		facts, _ := tr.Facts(r.id)
		b.WriteString("\n\n")
		b.WriteString(renderFacts(facts, width))
	}
	return b.String()
}

func renderFacts(facts []model.FactCheck, width int) string {
	if len(facts) == 0 {
		return styleMuted().Render("No facts found.")
	}
	var b strings.Builder
	b.WriteString(styleHeading().Render("Fact-check"))
	for _, f := range facts {
		status := f.NormalizedStatus()
		b.WriteString("\n")
		b.WriteString(factStatusStyle(status).Render(strings.ToUpper(string(status))))
		b.WriteString(" ")
		b.WriteString(f.Fact)
		meta := fmt.Sprintf("  similarity %.2f", f.Similarity)
		if f.Source != "" {
			meta += " · " + f.Source
		}
		b.WriteString("\n")
		b.WriteString(styleMuted().Render(xansi.Truncate(meta, width, "…")))
		if excerpt := strings.Join(strings.Fields(f.Excerpt), " "); excerpt != "" {
			b.WriteString("\n")
			b.WriteString(styleMuted().Render(xansi.Truncate("  “"+excerpt+"”", width, "…")))
		}
	}
	return b.String()
}

// fitPane pads or cuts s to exactly width columns and height lines so panes
// line up when joined.
func fitPane(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		switch {
		case w > width:
			ln = xansi.Truncate(ln, width, "…")
		case w < width:
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}
