package tui

import (
	"fmt"
	"io"
	"strings"

	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/tracker"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// nodeRow is one line in the lesson or outline pane.
type nodeRow struct {
	kind  model.NodeKind
	id    string
	title string
	path  model.Path
	depth int

	busy    bool
	failed  bool
	facts   int
	showing bool
}

func (r nodeRow) FilterValue() string { return r.title }

func lessonRows(o model.Outline) []list.Item {
	items := make([]list.Item, 0, len(o.Lessons))
	for i, l := range o.Lessons {
		items = append(items, nodeRow{
			kind:  model.NodeLesson,
			id:    l.ID,
			title: fmt.Sprintf("%d. %s", i+1, l.Title),
			path:  model.LessonPath(i),
		})
	}
	return items
}

// outlineRows flattens one lesson into topic rows followed by their subtopic
// rows, annotated with operation state from tr.
func outlineRows(l *model.Lesson, li int, tr *tracker.Tracker) []list.Item {
	if l == nil {
		return nil
	}
	var items []list.Item
	for ti, t := range l.Topics {
		facts, _ := tr.Facts(t.ID)
		items = append(items, nodeRow{
			kind:    model.NodeTopic,
			id:      t.ID,
			title:   fmt.Sprintf("%d. %s", ti+1, t.Title),
			path:    model.TopicPath(li, ti),
			busy:    tr.NodeBusy(t.ID),
			failed:  tr.NodeErr(t.ID) != nil,
			facts:   len(facts),
			showing: tr.FactsVisible(t.ID),
		})
		for si, s := range t.Subtopics {
			items = append(items, nodeRow{
				kind:   model.NodeSubtopic,
				id:     s.ID,
				title:  fmt.Sprintf("%d.%d %s", ti+1, si+1, s.Title),
				path:   model.SubtopicPath(li, ti, si),
				depth:  1,
				busy:   tr.NodeBusy(s.ID),
				failed: tr.NodeErr(s.ID) != nil,
			})
		}
	}
	return items
}

func rowIndex(items []list.Item, id string) int {
	for i, it := range items {
		if r, ok := it.(nodeRow); ok && r.id == id {
			return i
		}
	}
	return -1
}

type rowDelegate struct {
	spinner  *string
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newRowDelegate(spinnerFrame *string) rowDelegate {
	return rowDelegate{
		spinner: spinnerFrame,
		normal:  lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(nodeRow)
	width := m.Width()
	if !ok || width < 4 {
		return
	}

	mark := "  "
	switch {
	case r.busy && d.spinner != nil:
		mark = *d.spinner + " "
	case r.failed:
		mark = "! "
	}
	line := strings.Repeat("  ", r.depth) + mark + r.title
	if r.facts > 0 {
		toggle := "▸"
		if r.showing {
			toggle = "▾"
		}
		line += fmt.Sprintf("  %s %d facts", toggle, r.facts)
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	} else if r.kind == model.NodeSubtopic {
		style = styleMuted()
	}
	if r.failed && !r.busy {
		style = style.Foreground(colorError)
	}

	lw := xansi.StringWidth(line)
	if lw > width {
		line = xansi.Truncate(line, width, "…")
	} else if lw < width {
		line += strings.Repeat(" ", width-lw)
	}
	fmt.Fprint(w, style.Render(line))
}
