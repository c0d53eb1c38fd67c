package tracker

import (
	"errors"
	"sync"
	"testing"

	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
)

func testOutline() model.Outline {
	return model.Outline{Lessons: []*model.Lesson{
		{ID: "l0", Title: "Lesson 0", Topics: []*model.Topic{
			{ID: "t0", Title: "Topic 0", Content: "c0", Subtopics: []*model.Subtopic{
				{ID: "s0", Title: "Sub 0", Content: "sc0"},
				{ID: "s1", Title: "Sub 1", Content: "sc1"},
			}},
			{ID: "t1", Title: "Topic 1", Content: "c1"},
		}},
		{ID: "l1", Title: "Lesson 1"},
	}}
}

func key(id string, kind model.OpKind) model.OperationKey {
	return model.OperationKey{NodeID: id, Kind: kind}
}

func TestKeyAt(t *testing.T) {
	o := testOutline()

	k, err := KeyAt(o, model.SubtopicPath(0, 0, 1), model.OpExpand)
	if err != nil || k != key("s1", model.OpExpand) {
		t.Fatalf("unexpected key %v err %v", k, err)
	}
	if _, err := KeyAt(o, model.SubtopicPath(0, 0, 1), model.OpFactCheck); !errors.Is(err, ErrNotFactCheckable) {
		t.Fatalf("expected ErrNotFactCheckable, got %v", err)
	}
	if _, err := KeyAt(o, model.LessonPath(0), model.OpShorten); err == nil {
		t.Fatalf("expected lesson edit to be rejected")
	}
	var ae *outline.AddressingError
	if _, err := KeyAt(o, model.TopicPath(0, 9), model.OpExpand); !errors.As(err, &ae) {
		t.Fatalf("expected AddressingError, got %v", err)
	}
}

func TestBegin_RejectsDuplicate(t *testing.T) {
	tr := New(nil)
	k := key("t0", model.OpExpand)

	if !tr.Begin(k) {
		t.Fatalf("first Begin should succeed")
	}
	if tr.Begin(k) {
		t.Fatalf("second Begin on a pending key should be rejected")
	}
	if !tr.Begin(key("t0", model.OpShorten)) {
		t.Fatalf("a different kind on the same node is a different key")
	}
	if !tr.IsBusy(k) || !tr.NodeBusy("t0") || tr.NodeBusy("t1") {
		t.Fatalf("unexpected busy state")
	}
	if got := len(tr.Pending()); got != 2 {
		t.Fatalf("expected 2 pending, got %d", got)
	}
}

func TestComplete_ChangesOnlyTarget(t *testing.T) {
	o := testOutline()
	tr := New(nil)
	k := key("s1", model.OpExpand)
	tr.Begin(k)

	next, err := tr.Complete(o, k, "expanded")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tr.IsBusy(k) {
		t.Fatalf("key should be idle after completion")
	}
	if got := next.Lessons[0].Topics[0].Subtopics[1].Content; got != "expanded" {
		t.Fatalf("unexpected content %q", got)
	}
	if o.Lessons[0].Topics[0].Subtopics[1].Content != "sc1" {
		t.Fatalf("previous snapshot must not change")
	}
	if next.Lessons[0].Topics[1] != o.Lessons[0].Topics[1] || next.Lessons[1] != o.Lessons[1] {
		t.Fatalf("untouched subtrees should be shared")
	}

	if _, err := tr.Complete(next, k, "again"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestComplete_AfterReorderFollowsNode(t *testing.T) {
	o := testOutline()
	tr := New(nil)
	k := key("t0", model.OpRegenerate)
	tr.Begin(k)

	o = outline.MoveTopic(o, 0, 0, 1)
	o = outline.MoveLesson(o, 0, 1)

	next, err := tr.Complete(o, k, "fresh")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	moved := next.Lessons[1].Topics[1]
	if moved.ID != "t0" || moved.Content != "fresh" {
		t.Fatalf("result landed on the wrong node: %+v", moved)
	}
	if next.Lessons[1].Topics[0].Content != "c1" {
		t.Fatalf("sibling content changed")
	}
}

func TestComplete_MissingNodeDropsResult(t *testing.T) {
	o := testOutline()
	tr := New(nil)
	k := key("gone", model.OpShorten)
	tr.Begin(k)

	next, err := tr.Complete(o, k, "x")
	var ae *outline.AddressingError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AddressingError, got %v", err)
	}
	if tr.IsBusy(k) {
		t.Fatalf("busy flag should be cleared")
	}
	if next.Lessons[0] != o.Lessons[0] {
		t.Fatalf("outline should be unchanged")
	}
}

func TestFail_RecordsErrorAndLeavesTree(t *testing.T) {
	tr := New(nil)
	k := key("t1", model.OpExpand)
	tr.Begin(k)

	cause := errors.New("service unavailable")
	err := tr.Fail(k, cause)
	var roe *RemoteOperationError
	if !errors.As(err, &roe) || roe.Key != k || !errors.Is(err, cause) {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.IsBusy(k) {
		t.Fatalf("busy flag should be cleared")
	}
	if tr.Err(k) == nil || tr.NodeErr("t1") == nil {
		t.Fatalf("error should be kept for display")
	}

	tr.Begin(k)
	if tr.Err(k) != nil {
		t.Fatalf("a new Begin should clear the previous error")
	}
	tr.Fail(k, cause)
	tr.ClearError(k)
	if tr.Err(k) != nil {
		t.Fatalf("ClearError should drop the error")
	}
}

func TestConcurrentCompletionsOutOfOrder(t *testing.T) {
	o := testOutline()
	tr := New(nil)
	keys := []model.OperationKey{
		key("t0", model.OpExpand),
		key("s0", model.OpShorten),
		key("s1", model.OpRegenerate),
		key("t1", model.OpExpand),
	}
	for _, k := range keys {
		if !tr.Begin(k) {
			t.Fatalf("Begin %v failed", k)
		}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := len(keys) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(k model.OperationKey) {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			next, err := tr.Complete(o, k, "new-"+k.NodeID)
			if err != nil {
				t.Errorf("Complete %v: %v", k, err)
				return
			}
			o = next
		}(keys[i])
	}
	wg.Wait()

	for _, k := range keys {
		n, _, ok := outline.Find(o, k.NodeID)
		if !ok || n.Content() != "new-"+k.NodeID {
			t.Fatalf("node %s: unexpected content %q", k.NodeID, n.Content())
		}
	}
	if len(tr.Pending()) != 0 {
		t.Fatalf("expected no pending operations")
	}
}

func TestFactCheckLifecycle(t *testing.T) {
	tr := New(nil)
	k := key("t0", model.OpFactCheck)
	if tr.ToggleFacts("t0") {
		t.Fatalf("topics without results stay hidden")
	}

	tr.Begin(k)
	results := []model.FactCheck{{Fact: "f", Status: "Verified", Similarity: 0.9}}
	if err := tr.CompleteFactCheck(k, results); err != nil {
		t.Fatalf("CompleteFactCheck: %v", err)
	}
	if tr.IsBusy(k) {
		t.Fatalf("busy flag should be cleared")
	}
	if !tr.FactsVisible("t0") {
		t.Fatalf("new results should be visible")
	}
	fs, ok := tr.Facts("t0")
	if !ok || len(fs) != 1 || fs[0].Fact != "f" {
		t.Fatalf("unexpected facts %+v", fs)
	}
	if tr.ToggleFacts("t0") || tr.FactsVisible("t0") {
		t.Fatalf("toggle should hide results")
	}
	if !tr.ToggleFacts("t0") {
		t.Fatalf("toggle should show results again")
	}

	if err := tr.CompleteFactCheck(k, nil); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestForget_DropsStateForRemovedNodes(t *testing.T) {
	tr := New(nil)
	k := key("t9", model.OpFactCheck)
	tr.Begin(k)
	_ = tr.CompleteFactCheck(k, []model.FactCheck{{Fact: "f"}})
	e := key("s9", model.OpExpand)
	tr.Begin(e)
	tr.Fail(e, errors.New("boom"))

	tr.Forget(testOutline())
	if _, ok := tr.Facts("t9"); ok {
		t.Fatalf("facts for removed topic should be dropped")
	}
	if tr.Err(e) != nil {
		t.Fatalf("errors for removed node should be dropped")
	}
}
