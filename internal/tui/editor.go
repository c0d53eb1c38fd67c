package tui

import (
	"context"
	"errors"
	"fmt"

	"coursecraft-cli/internal/export"
	"coursecraft-cli/internal/logger"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type pane int

const (
	paneLessons pane = iota
	paneOutline
)

// opDoneMsg carries a finished remote call back onto the update loop, where
// it is applied to whatever the outline looks like by then.
type opDoneMsg struct {
	res session.Result
}

type lessonsMsg struct {
	outline model.Outline
	err     error
}

type editorModel struct {
	ctx  context.Context
	sess *session.Session
	log  *logger.Logger

	exportDir string
	mdStyle   string

	width  int
	height int

	pane    pane
	lessons list.Model
	outline list.Model
	// outlineFocus is the focused topic/subtopic id in the outline pane.
	outlineFocus string

	spin     spinner.Model
	frame    *string
	spinning bool

	keys     keyMap
	help     help.Model
	showHelp bool

	minibuffer    string
	minibufferErr bool

	// generate is set while the outline is still a course plan.
	generate   func(context.Context, model.Outline) (model.Outline, error)
	generating bool
}

func newEditorModel(ctx context.Context, sess *session.Session, opts Options) editorModel {
	frame := new(string)
	m := editorModel{
		ctx:       ctx,
		sess:      sess,
		log:       logger.OrNop(opts.Logger).With("component", "tui"),
		exportDir: opts.ExportDir,
		mdStyle:   opts.MarkdownStyle,
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		frame:     frame,
		keys:      defaultKeyMap(),
		help:      help.New(),
		lessons:   newList("Lessons", frame),
		outline:   newList("Outline", frame),
		generate:  opts.GenerateLessons,
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	if m.generate != nil {
		m.keys.setPlanning(true)
		m.setMessage("course plan: reorder, then g to generate lessons")
	}
	m.setSize(100, 30)
	m.refresh()
	return m
}

func newList(title string, frame *string) list.Model {
	l := list.New(nil, newRowDelegate(frame), 0, 0)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	return l
}

func (m editorModel) Init() tea.Cmd { return nil }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if len(m.sess.Tracker().Pending()) == 0 && !m.generating {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		*m.frame = m.spin.View()
		return m, cmd

	case opDoneMsg:
		m.finish(msg.res)
		return m, nil

	case lessonsMsg:
		m.generated(msg)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	if len(m.sess.Snapshot().Lessons) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == paneLessons && len(m.outline.Items()) > 0 {
			m.pane = paneOutline
			if r, ok := m.focusedRow(); ok {
				m.outlineFocus = r.id
			}
		} else {
			m.pane = paneLessons
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor(1)
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		m.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.MoveDown):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Regenerate):
		return m.startOp(model.OpRegenerate)
	case key.Matches(msg, m.keys.Expand):
		return m.startOp(model.OpExpand)
	case key.Matches(msg, m.keys.Shorten):
		return m.startOp(model.OpShorten)
	case key.Matches(msg, m.keys.FactCheck):
		return m.startOp(model.OpFactCheck)

	case key.Matches(msg, m.keys.ToggleFacts):
		if r, ok := m.focusedRow(); ok && r.kind == model.NodeTopic {
			m.sess.Tracker().ToggleFacts(r.id)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Download):
		m.download()
		return m, nil

	case key.Matches(msg, m.keys.Generate):
		return m.startGenerate()
	}
	return m, nil
}

// focusedRow is the row under the cursor in the active pane.
func (m editorModel) focusedRow() (nodeRow, bool) {
	l := m.lessons
	if m.pane == paneOutline {
		l = m.outline
	}
	r, ok := l.SelectedItem().(nodeRow)
	return r, ok
}

func (m *editorModel) cursor(delta int) {
	if m.pane == paneLessons {
		if delta < 0 {
			m.lessons.CursorUp()
		} else {
			m.lessons.CursorDown()
		}
		if r, ok := m.lessons.SelectedItem().(nodeRow); ok {
			_ = m.sess.Select(r.id)
			m.outlineFocus = ""
		}
		m.refresh()
		return
	}
	if delta < 0 {
		m.outline.CursorUp()
	} else {
		m.outline.CursorDown()
	}
	if r, ok := m.outline.SelectedItem().(nodeRow); ok {
		m.outlineFocus = r.id
	}
}

// move shifts the focused node one slot. Subtopics at either end of a topic
// cross into the neighbouring topic: up appends to the previous topic, down
// becomes the first subtopic of the next one.
func (m *editorModel) move(delta int) {
	r, ok := m.focusedRow()
	if !ok {
		return
	}
	if m.generating {
		m.setMessage("generating lessons…")
		return
	}
	o := m.sess.Snapshot()
	p := r.path
	var target model.Path

	switch r.kind {
	case model.NodeLesson:
		target = model.LessonPath(p.Lesson + delta)
	case model.NodeTopic:
		target = model.TopicPath(p.Lesson, p.Topic+delta)
	case model.NodeSubtopic:
		topics := o.Lessons[p.Lesson].Topics
		n := len(topics[p.Topic].Subtopics)
		switch {
		case delta < 0 && p.Subtopic == 0:
			target = model.TopicPath(p.Lesson, p.Topic-1)
		case delta > 0 && p.Subtopic == n-1:
			target = model.SubtopicPath(p.Lesson, p.Topic+1, 0)
		default:
			target = model.SubtopicPath(p.Lesson, p.Topic, p.Subtopic+delta)
		}
	}

	if err := m.sess.StartDrag(p); err != nil {
		m.setError(err)
		return
	}
	moved := m.sess.DragOver(target)
	m.sess.EndDrag()
	if !moved {
		return
	}
	if r.kind != model.NodeLesson {
		m.outlineFocus = r.id
	}
	m.refresh()
}

func (m editorModel) startOp(kind model.OpKind) (tea.Model, tea.Cmd) {
	r, ok := m.focusedRow()
	if m.generate != nil {
		m.setMessage("generate lessons first (g)")
		return m, nil
	}
	if !ok || m.pane != paneOutline {
		m.setMessage("select a topic or subtopic first (tab)")
		return m, nil
	}
	req, err := m.sess.Start(r.path, kind)
	if errors.Is(err, session.ErrBusy) {
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.log.Info("operation start", "node", req.Key.NodeID, "kind", kind)
	m.setMessage(fmt.Sprintf("%s: %s…", kind, r.title))
	m.refresh()

	sess, ctx := m.sess, m.ctx
	cmd := func() tea.Msg {
		return opDoneMsg{res: sess.Execute(ctx, req)}
	}
	cmd = m.withSpinner(cmd)
	return m, cmd
}

func (m *editorModel) withSpinner(cmd tea.Cmd) tea.Cmd {
	if m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spin.Tick)
}

// startGenerate sends the current plan, in its current order, for lesson
// generation. Moves are held until the lessons arrive.
func (m editorModel) startGenerate() (tea.Model, tea.Cmd) {
	if m.generate == nil || m.generating {
		return m, nil
	}
	m.generating = true
	m.setMessage("generating lessons…")
	m.log.Info("generate lessons", "lessons", len(m.sess.Snapshot().Lessons))

	gen, ctx, plan := m.generate, m.ctx, m.sess.Snapshot()
	cmd := func() tea.Msg {
		o, err := gen(ctx, plan)
		return lessonsMsg{outline: o, err: err}
	}
	cmd = m.withSpinner(cmd)
	return m, cmd
}

func (m *editorModel) generated(msg lessonsMsg) {
	m.generating = false
	if msg.err != nil {
		m.setError(fmt.Errorf("generate lessons: %w", msg.err))
		return
	}
	m.sess.Load(msg.outline)
	m.generate = nil
	m.keys.setPlanning(false)
	m.setMessage(fmt.Sprintf("generated %d lessons", len(m.sess.Snapshot().Lessons)))
	m.refresh()
}

func (m *editorModel) finish(res session.Result) {
	if err := m.sess.Finish(res); err != nil {
		m.setError(err)
	} else {
		m.setMessage(fmt.Sprintf("%s done", res.Key.Kind))
	}
	m.refresh()
}

func (m *editorModel) download() {
	l, _, ok := m.sess.SelectedLesson()
	if !ok {
		return
	}
	res, err := export.WriteLesson(l, m.exportDir, export.WriteOptions{Overwrite: true})
	if err != nil {
		m.setError(err)
		return
	}
	m.setMessage("wrote " + res.Written[0])
}

// refresh rebuilds both panes from the current snapshot, keeping the cursor
// on the same nodes by id.
func (m *editorModel) refresh() {
	o := m.sess.Snapshot()
	_ = m.lessons.SetItems(lessonRows(o))

	l, li, ok := m.sess.SelectedLesson()
	if !ok {
		_ = m.outline.SetItems(nil)
		return
	}
	m.lessons.Select(li)

	rows := outlineRows(l, li, m.sess.Tracker())
	_ = m.outline.SetItems(rows)
	if i := rowIndex(rows, m.outlineFocus); i >= 0 {
		m.outline.Select(i)
	} else {
		m.outline.Select(0)
		m.outlineFocus = ""
		if len(rows) > 0 {
			m.outlineFocus = rows[0].(nodeRow).id
		}
	}
	if m.pane == paneOutline && len(rows) == 0 {
		m.pane = paneLessons
	}
}

func (m *editorModel) setMessage(s string) {
	m.minibuffer = s
	m.minibufferErr = false
}

func (m *editorModel) setError(err error) {
	m.minibuffer = err.Error()
	m.minibufferErr = true
	m.log.Warn("editor error", "err", err)
}
