package session

import (
	"context"
	"errors"
	"sync"

	"coursecraft-cli/internal/logger"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
	"coursecraft-cli/internal/tracker"
)

// ContentService is the part of the generation service a session needs.
type ContentService interface {
	EditContent(ctx context.Context, kind model.OpKind, content string) (string, error)
	FactCheck(ctx context.Context, topic model.Topic) ([]model.FactCheck, error)
}

// Session owns one editing session: the current outline snapshot, the
// selection (held by node id) and the operation tracker. Every mutation goes
// through it and replaces the snapshot.
type Session struct {
	mu       sync.Mutex
	tree     model.Outline
	selected string
	drag     *outline.Drag

	ops *tracker.Tracker
	svc ContentService
	log *logger.Logger
}

// New starts a session on o. An outline without lessons yields a
// *ValidationError together with a usable, empty session.
func New(o model.Outline, svc ContentService, l *logger.Logger) (*Session, error) {
	l = logger.OrNop(l)
	s := &Session{
		tree: outline.AssignIDs(o),
		ops:  tracker.New(l),
		svc:  svc,
		log:  l.With("component", "session"),
	}
	if len(s.tree.Lessons) == 0 {
		return s, &ValidationError{Field: "lessons", Reason: "no lessons available"}
	}
	s.selected = s.tree.Lessons[0].ID
	return s, nil
}

func (s *Session) Snapshot() model.Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

func (s *Session) Tracker() *tracker.Tracker { return s.ops }

// Load replaces the whole outline, keeping the selection if its node survives.
func (s *Session) Load(o model.Outline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(outline.AssignIDs(o))
	s.ops.Forget(s.tree)
}

// Selected resolves the selected node in the current snapshot.
func (s *Session) Selected() (model.Node, model.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return outline.Find(s.tree, s.selected)
}

// SelectedLesson returns the lesson containing the selected node.
func (s *Session) SelectedLesson() (*model.Lesson, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, p, ok := outline.Find(s.tree, s.selected)
	if !ok {
		return nil, -1, false
	}
	return s.tree.Lessons[p.Lesson], p.Lesson, true
}

func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := outline.PathOf(s.tree, id); !ok {
		return &outline.AddressingError{NodeID: id, Reason: "no such node"}
	}
	s.selected = id
	return nil
}

func (s *Session) SelectPath(p model.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := outline.NodeAt(s.tree, p)
	if !ok {
		return &outline.AddressingError{Path: &p, Reason: "path does not resolve"}
	}
	s.selected = n.ID()
	return nil
}

// replace installs next and re-resolves the selection. Callers hold s.mu.
func (s *Session) replace(next model.Outline) {
	s.tree = next
	if _, ok := outline.PathOf(next, s.selected); ok {
		return
	}
	if len(next.Lessons) > 0 {
		s.selected = next.Lessons[0].ID
	} else {
		s.selected = ""
	}
}

func (s *Session) MoveLesson(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tree.Lessons)
	if err := checkIndex("lesson", from, n); err != nil {
		return err
	}
	if err := checkIndex("lesson", to, n); err != nil {
		return err
	}
	s.log.Debug("move lesson", "from", from, "to", to)
	s.replace(outline.MoveLesson(s.tree, from, to))
	return nil
}

func (s *Session) MoveTopic(lessonIdx, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkIndex("lesson", lessonIdx, len(s.tree.Lessons)); err != nil {
		return err
	}
	n := len(s.tree.Lessons[lessonIdx].Topics)
	if err := checkIndex("topic", from, n); err != nil {
		return err
	}
	if err := checkIndex("topic", to, n); err != nil {
		return err
	}
	s.log.Debug("move topic", "lesson", lessonIdx, "from", from, "to", to)
	s.replace(outline.MoveTopic(s.tree, lessonIdx, from, to))
	return nil
}

func (s *Session) MoveSubtopic(lessonIdx, fromTopic, toTopic, fromSub, toSub int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkIndex("lesson", lessonIdx, len(s.tree.Lessons)); err != nil {
		return err
	}
	topics := s.tree.Lessons[lessonIdx].Topics
	if err := checkIndex("topic", fromTopic, len(topics)); err != nil {
		return err
	}
	if err := checkIndex("topic", toTopic, len(topics)); err != nil {
		return err
	}
	if err := checkIndex("subtopic", fromSub, len(topics[fromTopic].Subtopics)); err != nil {
		return err
	}
	limit := len(topics[toTopic].Subtopics)
	if fromTopic != toTopic {
		limit++
	}
	if err := checkIndex("subtopic", toSub, limit); err != nil {
		return err
	}
	s.log.Debug("move subtopic", "lesson", lessonIdx, "fromTopic", fromTopic, "toTopic", toTopic, "from", fromSub, "to", toSub)
	s.replace(outline.MoveSubtopic(s.tree, lessonIdx, fromTopic, toTopic, fromSub, toSub))
	return nil
}

func checkIndex(field string, i, n int) error {
	if i < 0 || i >= n {
		return invalid(field, "index %d out of range [0,%d)", i, n)
	}
	return nil
}

// StartDrag begins a drag gesture on the node at p.
func (s *Session) StartDrag(p model.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := outline.StartDrag(s.tree, p)
	if err != nil {
		return err
	}
	s.drag = d
	return nil
}

// DragOver moves the dragged node to target. It reports whether the outline
// changed; hovering the same slot twice is a no-op.
func (s *Session) DragOver(target model.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return false
	}
	next, moved := s.drag.Hover(s.tree, target)
	if moved {
		s.log.Debug("drag move", "node", s.drag.NodeID(), "to", s.drag.At().String())
		s.replace(next)
	}
	return moved
}

func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// Request is one issued node operation together with the inputs the remote
// call needs, captured from the snapshot it was issued against.
type Request struct {
	Key     model.OperationKey
	Content string
	Topic   model.Topic
}

// Result is the outcome of a remote call for a Request.
type Result struct {
	Key     model.OperationKey
	Content string
	Facts   []model.FactCheck
	Err     error
}

// Start issues kind against the node at p and marks it busy. ErrBusy means
// the same operation is already running on that node.
func (s *Session) Start(p model.Path, kind model.OpKind) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := tracker.KeyAt(s.tree, p, kind)
	if err != nil {
		return Request{}, err
	}
	n, _ := outline.NodeAt(s.tree, p)
	if !s.ops.Begin(key) {
		return Request{}, ErrBusy
	}
	req := Request{Key: key, Content: n.Content()}
	if n.Kind == model.NodeTopic {
		req.Topic = *n.Topic
	}
	return req, nil
}

// Execute performs the remote call for req. It touches no session state and
// is meant to run off the UI loop.
func (s *Session) Execute(ctx context.Context, req Request) Result {
	res := Result{Key: req.Key}
	if s.svc == nil {
		res.Err = errors.New("no content service configured")
		return res
	}
	if req.Key.Kind == model.OpFactCheck {
		res.Facts, res.Err = s.svc.FactCheck(ctx, req.Topic)
		return res
	}
	res.Content, res.Err = s.svc.EditContent(ctx, req.Key.Kind, req.Content)
	return res
}

// Finish applies res to the current snapshot. A failed call leaves the
// outline unchanged and returns a *tracker.RemoteOperationError; a node that
// disappeared meanwhile yields an *outline.AddressingError.
func (s *Session) Finish(res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Err != nil {
		return s.ops.Fail(res.Key, res.Err)
	}
	if res.Key.Kind == model.OpFactCheck {
		return s.ops.CompleteFactCheck(res.Key, res.Facts)
	}
	next, err := s.ops.Complete(s.tree, res.Key, res.Content)
	if err != nil {
		return err
	}
	s.replace(next)
	return nil
}

// Run is Start, Execute and Finish in sequence.
func (s *Session) Run(ctx context.Context, p model.Path, kind model.OpKind) error {
	req, err := s.Start(p, kind)
	if err != nil {
		return err
	}
	return s.Finish(s.Execute(ctx, req))
}
