package outline

import (
	"testing"

	"coursecraft-cli/internal/model"
)

func TestMoveLesson_TwoLessons(t *testing.T) {
	o := sampleOutline(2)
	next := MoveLesson(o, 1, 0)

	assertIDs(t, "lessons", lessonIDs(next), []string{"l1", "l0"})
	if next.Lessons[0] != o.Lessons[1] || next.Lessons[1] != o.Lessons[0] {
		t.Fatalf("moved lessons should keep their subtrees unchanged")
	}
	assertIDs(t, "original lessons", lessonIDs(o), []string{"l0", "l1"})
}

func TestMoveLesson_RoundTrip(t *testing.T) {
	o := sampleOutline(5)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if i == j {
				continue
			}
			back := MoveLesson(MoveLesson(o, i, j), j, i)
			assertIDs(t, "round trip", lessonIDs(back), lessonIDs(o))
		}
	}
}

func TestMoveLesson_PreservesRelativeOrder(t *testing.T) {
	o := sampleOutline(5)

	assertIDs(t, "down", lessonIDs(MoveLesson(o, 0, 3)), []string{"l1", "l2", "l3", "l0", "l4"})
	assertIDs(t, "up", lessonIDs(MoveLesson(o, 4, 1)), []string{"l0", "l4", "l1", "l2", "l3"})
}

func TestMoveLesson_SameIndexIsNoop(t *testing.T) {
	o := sampleOutline(3)
	next := MoveLesson(o, 1, 1)
	if &next.Lessons[0] != &o.Lessons[0] {
		t.Fatalf("expected the same snapshot back for a no-op move")
	}
}

func TestMoveTopic_ScopedToLesson(t *testing.T) {
	o := sampleOutline(2)
	next := MoveTopic(o, 1, 2, 0)

	assertIDs(t, "topics", topicIDs(next.Lessons[1]), []string{"l1.t2", "l1.t0", "l1.t1"})
	if next.Lessons[0] != o.Lessons[0] {
		t.Fatalf("other lessons should be shared")
	}
	if next.Lessons[1].ID != "l1" || next.Lessons[1].Title != o.Lessons[1].Title {
		t.Fatalf("lesson identity should be kept")
	}
	assertIDs(t, "original topics", topicIDs(o.Lessons[1]), []string{"l1.t0", "l1.t1", "l1.t2"})
}

func TestMoveSubtopic_SameTopic(t *testing.T) {
	o := sampleOutline(1)
	next := MoveSubtopic(o, 0, 1, 1, 2, 0)

	assertIDs(t, "subtopics", subtopicIDs(next.Lessons[0].Topics[1]), []string{"l0.t1.s2", "l0.t1.s0", "l0.t1.s1"})
	if next.Lessons[0].Topics[0] != o.Lessons[0].Topics[0] || next.Lessons[0].Topics[2] != o.Lessons[0].Topics[2] {
		t.Fatalf("other topics should be shared")
	}
}

func TestMoveSubtopic_CrossTopic(t *testing.T) {
	o := sampleOutline(1)
	next := MoveSubtopic(o, 0, 0, 2, 1, 1)

	assertIDs(t, "source", subtopicIDs(next.Lessons[0].Topics[0]), []string{"l0.t0.s0", "l0.t0.s2"})
	assertIDs(t, "dest", subtopicIDs(next.Lessons[0].Topics[2]), []string{"l0.t2.s0", "l0.t0.s1", "l0.t2.s1", "l0.t2.s2"})
	if next.Lessons[0].Topics[1] != o.Lessons[0].Topics[1] {
		t.Fatalf("uninvolved topic should be shared")
	}
	if next.Lessons[0].Topics[2].Subtopics[1] != o.Lessons[0].Topics[0].Subtopics[1] {
		t.Fatalf("moved subtopic should keep its identity")
	}
}

func TestMoveSubtopic_OnlySubtopicIntoOtherTopic(t *testing.T) {
	o := model.Outline{Lessons: []*model.Lesson{{
		ID: "l",
		Topics: []*model.Topic{
			{ID: "a", Subtopics: []*model.Subtopic{{ID: "only"}}},
			{ID: "b", Subtopics: []*model.Subtopic{{ID: "b1"}, {ID: "b2"}}},
		},
	}}}

	for _, tc := range []struct {
		toSub int
		want  []string
	}{
		{0, []string{"only", "b1", "b2"}},
		{1, []string{"b1", "only", "b2"}},
		{2, []string{"b1", "b2", "only"}},
	} {
		next := MoveSubtopic(o, 0, 0, 1, 0, tc.toSub)
		if n := len(next.Lessons[0].Topics[0].Subtopics); n != 0 {
			t.Fatalf("toSub=%d: expected source topic empty, got %d", tc.toSub, n)
		}
		assertIDs(t, "dest", subtopicIDs(next.Lessons[0].Topics[1]), tc.want)
	}
}

func TestMove_OutOfRangePanics(t *testing.T) {
	o := sampleOutline(2)
	cases := map[string]func(){
		"lesson to":       func() { MoveLesson(o, 0, 2) },
		"lesson from":     func() { MoveLesson(o, -1, 0) },
		"topic lesson":    func() { MoveTopic(o, 5, 0, 1) },
		"topic to":        func() { MoveTopic(o, 0, 0, 3) },
		"subtopic from":   func() { MoveSubtopic(o, 0, 0, 0, 3, 0) },
		"subtopic to":     func() { MoveSubtopic(o, 0, 0, 0, 0, 3) },
		"cross append+1":  func() { MoveSubtopic(o, 0, 0, 1, 0, 4) },
		"cross bad topic": func() { MoveSubtopic(o, 0, 0, 3, 0, 0) },
	}
	for name, fn := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic", name)
				}
			}()
			fn()
		}()
	}
}
