package tracker

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coursecraft-cli/internal/logger"
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
)

// Tracker keeps per-node asynchronous operation state: which (node, kind)
// pairs are in flight, the last failure per key, and fact-check results per
// topic. It never holds a tree; completions take the current snapshot and
// return the next one.
type Tracker struct {
	mu sync.Mutex

	pending map[model.OperationKey]time.Time
	errs    map[model.OperationKey]error

	facts        map[string][]model.FactCheck
	factsVisible map[string]bool

	log *logger.Logger
}

func New(l *logger.Logger) *Tracker {
	return &Tracker{
		pending:      map[model.OperationKey]time.Time{},
		errs:         map[model.OperationKey]error{},
		facts:        map[string][]model.FactCheck{},
		factsVisible: map[string]bool{},
		log:          logger.OrNop(l).With("component", "tracker"),
	}
}

// KeyAt resolves the node at p in o and returns the operation key for kind.
// Lessons carry no editable content here; fact-checks target topics only.
func KeyAt(o model.Outline, p model.Path, kind model.OpKind) (model.OperationKey, error) {
	n, ok := outline.NodeAt(o, p)
	if !ok {
		return model.OperationKey{}, &outline.AddressingError{Path: &p, Reason: "path does not resolve"}
	}
	switch {
	case kind == model.OpFactCheck && n.Kind != model.NodeTopic:
		return model.OperationKey{}, ErrNotFactCheckable
	case kind.EditsContent() && n.Kind == model.NodeLesson:
		return model.OperationKey{}, fmt.Errorf("%s applies to topics and subtopics, not lessons", kind)
	case kind != model.OpFactCheck && !kind.EditsContent():
		return model.OperationKey{}, fmt.Errorf("unknown operation: %q", kind)
	}
	return model.OperationKey{NodeID: n.ID(), Kind: kind}, nil
}

// Begin marks key in flight. It returns false, and changes nothing, when the
// same key is already pending. A new begin clears the key's previous error.
func (t *Tracker) Begin(key model.OperationKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.pending[key]; busy {
		return false
	}
	t.pending[key] = time.Now()
	delete(t.errs, key)
	t.log.Debug("operation begin", "node", key.NodeID, "kind", key.Kind)
	return true
}

func (t *Tracker) IsBusy(key model.OperationKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.pending[key]
	return busy
}

// NodeBusy reports whether any operation is in flight for the node.
func (t *Tracker) NodeBusy(nodeID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.pending {
		if k.NodeID == nodeID {
			return true
		}
	}
	return false
}

// Pending returns the in-flight keys sorted by node then kind.
func (t *Tracker) Pending() []model.OperationKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.OperationKey, 0, len(t.pending))
	for k := range t.pending {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeID != out[j].NodeID {
			return out[i].NodeID < out[j].NodeID
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Complete applies a successful content result to o. The node's path is
// derived from its identity in o, not from where it was when the operation
// began. If the node is gone the result is dropped, the key stops being busy
// and an *outline.AddressingError is returned along with o unchanged.
func (t *Tracker) Complete(o model.Outline, key model.OperationKey, content string) (model.Outline, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	started, ok := t.pending[key]
	if !ok {
		return o, ErrNotPending
	}
	delete(t.pending, key)

	if !key.Kind.EditsContent() {
		return o, fmt.Errorf("%s does not produce content", key.Kind)
	}

	next, p, err := outline.UpdateContentByID(o, key.NodeID, content)
	if err != nil {
		var ae *outline.AddressingError
		if errors.As(err, &ae) {
			t.log.Warn("dropping result for missing node", "node", key.NodeID, "kind", key.Kind, "err", err)
		}
		return o, err
	}
	t.log.Debug("operation complete", "node", key.NodeID, "kind", key.Kind, "path", p.String(), "elapsed", time.Since(started))
	return next, nil
}

// Fail clears the busy flag and records err for inline display. The returned
// error wraps err.
func (t *Tracker) Fail(key model.OperationKey, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, key)
	roe := &RemoteOperationError{Key: key, Err: err}
	t.errs[key] = roe
	t.log.Warn("operation failed", "node", key.NodeID, "kind", key.Kind, "err", err)
	return roe
}

// Err returns the last recorded failure for key, or nil.
func (t *Tracker) Err(key model.OperationKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errs[key]
}

// NodeErr returns any recorded failure for the node, preferring content edits.
func (t *Tracker) NodeErr(nodeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kind := range []model.OpKind{model.OpRegenerate, model.OpExpand, model.OpShorten, model.OpFactCheck} {
		if err := t.errs[model.OperationKey{NodeID: nodeID, Kind: kind}]; err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) ClearError(key model.OperationKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.errs, key)
}

// CompleteFactCheck stores fact-check results for the topic named by key and
// makes them visible. Previous results for the topic are replaced.
func (t *Tracker) CompleteFactCheck(key model.OperationKey, results []model.FactCheck) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pending[key]; !ok {
		return ErrNotPending
	}
	delete(t.pending, key)
	if key.Kind != model.OpFactCheck {
		return fmt.Errorf("%s is not a fact-check", key.Kind)
	}
	t.facts[key.NodeID] = append([]model.FactCheck(nil), results...)
	t.factsVisible[key.NodeID] = true
	t.log.Debug("fact-check complete", "node", key.NodeID, "facts", len(results))
	return nil
}

// Facts returns the stored fact-check results for a topic.
func (t *Tracker) Facts(topicID string) ([]model.FactCheck, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fs, ok := t.facts[topicID]
	if !ok {
		return nil, false
	}
	return append([]model.FactCheck(nil), fs...), true
}

// ToggleFacts flips result visibility for a topic and returns the new state.
// Topics without results stay hidden.
func (t *Tracker) ToggleFacts(topicID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.facts[topicID]; !ok {
		return false
	}
	t.factsVisible[topicID] = !t.factsVisible[topicID]
	return t.factsVisible[topicID]
}

func (t *Tracker) FactsVisible(topicID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.factsVisible[topicID]
}

// Forget drops fact-check state and errors for nodes that no longer exist in o.
func (t *Tracker) Forget(o model.Outline) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.facts {
		if _, ok := outline.PathOf(o, id); !ok {
			delete(t.facts, id)
			delete(t.factsVisible, id)
		}
	}
	for k := range t.errs {
		if _, ok := outline.PathOf(o, k.NodeID); !ok {
			delete(t.errs, k)
		}
	}
}
