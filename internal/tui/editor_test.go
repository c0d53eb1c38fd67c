package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
	"coursecraft-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type stubService struct {
	err   error
	facts []model.FactCheck
}

func (s stubService) EditContent(_ context.Context, kind model.OpKind, content string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return string(kind) + "(" + content + ")", nil
}

func (s stubService) FactCheck(_ context.Context, _ model.Topic) ([]model.FactCheck, error) {
	return s.facts, s.err
}

func testOutline() model.Outline {
	return model.Outline{Lessons: []*model.Lesson{
		{ID: "l0", Title: "Intro", Description: "Welcome", LearningObjectives: []string{"Understand"}, Topics: []*model.Topic{
			{ID: "t0", Title: "Basics", Content: "basics", Subtopics: []*model.Subtopic{
				{ID: "s0", Title: "One", Content: "one"},
				{ID: "s1", Title: "Two", Content: "two"},
			}},
			{ID: "t1", Title: "More", Content: "more", Subtopics: []*model.Subtopic{
				{ID: "s2", Title: "Three", Content: "three"},
			}},
		}},
		{ID: "l1", Title: "Advanced", Description: "Deeper"},
	}}
}

func newTestEditor(t *testing.T, svc session.ContentService) editorModel {
	t.Helper()
	sess, err := session.New(testOutline(), svc, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return newEditorModel(context.Background(), sess, Options{ExportDir: t.TempDir(), MarkdownStyle: "notty"})
}

func press(t *testing.T, m editorModel, msgs ...tea.KeyMsg) (editorModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(editorModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab     = tea.KeyMsg{Type: tea.KeyTab}
	keyDown    = tea.KeyMsg{Type: tea.KeyDown}
	keyAltUp   = tea.KeyMsg{Type: tea.KeyUp, Alt: true}
	keyAltDown = tea.KeyMsg{Type: tea.KeyDown, Alt: true}
)

// deliver runs cmd (and any batched commands) and feeds the resulting
// operation and generation completions back into the model.
func deliver(t *testing.T, m editorModel, cmd tea.Cmd) editorModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	default:
		msgs = append(msgs, msg)
	}
	for _, msg := range msgs {
		switch msg.(type) {
		case opDoneMsg, lessonsMsg:
			next, _ := m.Update(msg)
			m = next.(editorModel)
		}
	}
	return m
}

func lessonOrder(m editorModel) []string {
	var ids []string
	for _, l := range m.sess.Snapshot().Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestEditor_MoveLessonKeepsSelection(t *testing.T) {
	m := newTestEditor(t, nil)

	m, _ = press(t, m, keyDown)
	if r, _ := m.focusedRow(); r.id != "l1" {
		t.Fatalf("expected cursor on l1, got %q", r.id)
	}
	m, _ = press(t, m, keyAltUp)
	if got := strings.Join(lessonOrder(m), ","); got != "l1,l0" {
		t.Fatalf("unexpected order %s", got)
	}
	if r, _ := m.focusedRow(); r.id != "l1" {
		t.Fatalf("cursor should follow the moved lesson, got %q", r.id)
	}
	if n, _, _ := m.sess.Selected(); n.ID() != "l1" {
		t.Fatalf("selection should follow the moved lesson, got %q", n.ID())
	}

	// Moving past the top is ignored.
	m, _ = press(t, m, keyAltUp)
	if got := strings.Join(lessonOrder(m), ","); got != "l1,l0" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestEditor_SubtopicCrossesTopicBoundary(t *testing.T) {
	m := newTestEditor(t, nil)

	// tab into the outline pane, then down to s1 (t0, s0, s1).
	m, _ = press(t, m, keyTab, keyDown, keyDown)
	if r, _ := m.focusedRow(); r.id != "s1" {
		t.Fatalf("expected cursor on s1, got %q", r.id)
	}
	m, _ = press(t, m, keyAltDown)

	topics := m.sess.Snapshot().Lessons[0].Topics
	if len(topics[0].Subtopics) != 1 || topics[1].Subtopics[0].ID != "s1" {
		t.Fatalf("s1 should lead the next topic: %v / %v", topics[0].Subtopics, topics[1].Subtopics)
	}
	if r, _ := m.focusedRow(); r.id != "s1" {
		t.Fatalf("cursor should stay on s1, got %q", r.id)
	}

	m, _ = press(t, m, keyAltUp)
	topics = m.sess.Snapshot().Lessons[0].Topics
	if got := topics[0].Subtopics[len(topics[0].Subtopics)-1].ID; got != "s1" {
		t.Fatalf("s1 should return to the end of the first topic, got %s", got)
	}
}

func TestEditor_ExpandAppliesResult(t *testing.T) {
	m := newTestEditor(t, stubService{})

	m, _ = press(t, m, keyTab, keyDown)
	m, cmd := press(t, m, runes("e"))
	if cmd == nil {
		t.Fatalf("expected a command for the remote call")
	}
	if !m.sess.Tracker().NodeBusy("s0") {
		t.Fatalf("s0 should be busy while the call runs")
	}

	// A second expand on the same node is ignored while pending.
	if _, again := press(t, m, runes("e")); again != nil {
		t.Fatalf("duplicate operation should not issue a command")
	}

	m = deliver(t, m, cmd)
	if m.sess.Tracker().NodeBusy("s0") {
		t.Fatalf("s0 should be idle after completion")
	}
	if got := m.sess.Snapshot().Lessons[0].Topics[0].Subtopics[0].Content; got != "expand(one)" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestEditor_ResultFollowsNodeMovedMeanwhile(t *testing.T) {
	m := newTestEditor(t, stubService{})

	m, _ = press(t, m, keyTab)
	m, cmd := press(t, m, runes("s"))
	m, _ = press(t, m, keyAltDown)

	m = deliver(t, m, cmd)
	topics := m.sess.Snapshot().Lessons[0].Topics
	if topics[1].ID != "t0" || topics[1].Content != "shorten(basics)" {
		t.Fatalf("result should land on moved topic: %+v", topics[1])
	}
	if topics[0].Content != "more" {
		t.Fatalf("other topic changed: %q", topics[0].Content)
	}
}

func TestEditor_FailureShowsErrorAndKeepsContent(t *testing.T) {
	m := newTestEditor(t, stubService{err: errors.New("service down")})

	m, _ = press(t, m, keyTab)
	m, cmd := press(t, m, runes("r"))
	m = deliver(t, m, cmd)

	if !m.minibufferErr || !strings.Contains(m.minibuffer, "service down") {
		t.Fatalf("expected error in minibuffer, got %q", m.minibuffer)
	}
	if got := m.sess.Snapshot().Lessons[0].Topics[0].Content; got != "basics" {
		t.Fatalf("content should be unchanged, got %q", got)
	}
	if !strings.Contains(m.preview(80), "service down") {
		t.Fatalf("preview should show the inline error")
	}
}

func TestEditor_FactCheckToggle(t *testing.T) {
	m := newTestEditor(t, stubService{facts: []model.FactCheck{{Fact: "Basics are basic", Status: "Verified", Similarity: 0.93, Source: "wiki"}}})

	m, _ = press(t, m, keyTab)
	m, cmd := press(t, m, runes("f"))
	m = deliver(t, m, cmd)

	if !m.sess.Tracker().FactsVisible("t0") {
		t.Fatalf("facts should be visible after fact-check")
	}
	if p := m.preview(80); !strings.Contains(p, "Basics are basic") || !strings.Contains(p, "VERIFIED") {
		t.Fatalf("preview should list facts:\n%s", p)
	}
	m, _ = press(t, m, runes("F"))
	if m.sess.Tracker().FactsVisible("t0") {
		t.Fatalf("F should hide facts")
	}
	if strings.Contains(m.preview(80), "Basics are basic") {
		t.Fatalf("hidden facts should not render")
	}

	// Subtopics cannot be fact-checked.
	m, _ = press(t, m, keyDown)
	m, cmd = press(t, m, runes("f"))
	if cmd != nil || !m.minibufferErr {
		t.Fatalf("expected fact-check on a subtopic to be rejected")
	}
}

func TestEditor_DownloadWritesMarkdown(t *testing.T) {
	m := newTestEditor(t, nil)
	m, _ = press(t, m, runes("d"))
	if m.minibufferErr {
		t.Fatalf("download failed: %s", m.minibuffer)
	}
	b, err := os.ReadFile(filepath.Join(m.exportDir, "Intro.md"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Intro\n\nWelcome\n") {
		t.Fatalf("unexpected export:\n%s", string(b))
	}
}

func TestEditor_EmptyOutline(t *testing.T) {
	sess, _ := session.New(model.Outline{}, nil, nil)
	m := newEditorModel(context.Background(), sess, Options{})
	if !strings.Contains(m.View(), "No lessons available.") {
		t.Fatalf("expected empty-state message")
	}
	if _, cmd := press(t, m, keyTab, runes("e")); cmd != nil {
		t.Fatalf("no commands expected on an empty outline")
	}
}

func TestEditor_ViewRendersPanes(t *testing.T) {
	m := newTestEditor(t, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(editorModel)
	v := m.View()
	for _, want := range []string{"1. Intro", "2. Advanced", "1. Basics", "1.1 One"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}

func planOutline() model.Outline {
	return model.Outline{Lessons: []*model.Lesson{
		{ID: "p0", Title: "Intro", Topics: []*model.Topic{
			{ID: "pt0", Title: "Basics", Subtopics: []*model.Subtopic{{ID: "ps0", Title: "One"}}},
		}},
		{ID: "p1", Title: "Advanced"},
	}}
}

func newPlanEditor(t *testing.T, gen func(context.Context, model.Outline) (model.Outline, error)) editorModel {
	t.Helper()
	sess, err := session.New(planOutline(), stubService{}, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return newEditorModel(context.Background(), sess, Options{
		ExportDir:       t.TempDir(),
		MarkdownStyle:   "notty",
		GenerateLessons: gen,
	})
}

func TestEditor_PlanReorderedBeforeGenerating(t *testing.T) {
	var sent []string
	m := newPlanEditor(t, func(_ context.Context, plan model.Outline) (model.Outline, error) {
		for _, l := range plan.Lessons {
			sent = append(sent, l.Title)
		}
		return testOutline(), nil
	})

	m, _ = press(t, m, keyAltDown)
	if got := lessonOrder(m); strings.Join(got, ",") != "p1,p0" {
		t.Fatalf("plan lessons should reorder, got %v", got)
	}

	// Content operations wait for generated lessons.
	if _, cmd := press(t, m, keyTab, runes("e")); cmd != nil {
		t.Fatalf("expand should be unavailable on a plan")
	}

	m, cmd := press(t, m, runes("g"))
	if cmd == nil || !m.generating {
		t.Fatalf("g should start generation")
	}
	m = deliver(t, m, cmd)

	if strings.Join(sent, ",") != "Advanced,Intro" {
		t.Fatalf("generation should receive the reordered plan, got %v", sent)
	}
	if m.generating || m.generate != nil {
		t.Fatalf("editor should leave plan mode after generation")
	}
	if got := lessonOrder(m); strings.Join(got, ",") != "l0,l1" {
		t.Fatalf("generated lessons should replace the plan, got %v", got)
	}
	if m.minibuffer != "generated 2 lessons" {
		t.Fatalf("unexpected message %q", m.minibuffer)
	}

	// Content operations work on the generated lessons.
	m, _ = press(t, m, keyTab)
	m, cmd = press(t, m, runes("e"))
	m = deliver(t, m, cmd)
	n, _, _ := outline.Find(m.sess.Snapshot(), "t0")
	if n.Topic.Content != "expand(basics)" {
		t.Fatalf("expand after generation: got %q", n.Topic.Content)
	}
}

func TestEditor_PlanGenerationFailureKeepsPlan(t *testing.T) {
	m := newPlanEditor(t, func(context.Context, model.Outline) (model.Outline, error) {
		return model.Outline{}, errors.New("service down")
	})

	m, cmd := press(t, m, runes("g"))
	m = deliver(t, m, cmd)

	if !m.minibufferErr || !strings.Contains(m.minibuffer, "service down") {
		t.Fatalf("expected generation error, got %q", m.minibuffer)
	}
	if m.generate == nil || m.generating {
		t.Fatalf("plan mode should stay active after a failure")
	}
	if got := lessonOrder(m); strings.Join(got, ",") != "p0,p1" {
		t.Fatalf("plan should be unchanged, got %v", got)
	}
}

func TestRenderFacts_ShowsSourceAndExcerpt(t *testing.T) {
	out := renderFacts([]model.FactCheck{{
		Fact:       "Water boils at 100C",
		Status:     "moderate",
		Similarity: 0.71,
		Source:     "encyclopedia",
		Excerpt:    "At sea level,\n water boils at 100 degrees.",
	}}, 80)
	for _, want := range []string{"MODERATE", "Water boils at 100C", "similarity 0.71", "encyclopedia", "At sea level, water boils at 100 degrees."} {
		if !strings.Contains(out, want) {
			t.Fatalf("facts missing %q:\n%s", want, out)
		}
	}
}
