package outline

import (
	"fmt"
	"testing"

	"coursecraft-cli/internal/model"
)

// sampleOutline builds lessons l0..l(n-1), each with topics t0..t2 and three
// subtopics per topic. Ids encode the original position, e.g. "l0.t1.s2".
func sampleOutline(n int) model.Outline {
	var o model.Outline
	for li := 0; li < n; li++ {
		lid := fmt.Sprintf("l%d", li)
		l := &model.Lesson{ID: lid, Title: "Lesson " + lid, Description: "desc " + lid, LearningObjectives: []string{"obj " + lid}}
		for ti := 0; ti < 3; ti++ {
			tid := fmt.Sprintf("%s.t%d", lid, ti)
			t := &model.Topic{ID: tid, Title: "Topic " + tid, Content: "content " + tid}
			for si := 0; si < 3; si++ {
				sid := fmt.Sprintf("%s.s%d", tid, si)
				t.Subtopics = append(t.Subtopics, &model.Subtopic{ID: sid, Title: "Sub " + sid, Content: "content " + sid})
			}
			l.Topics = append(l.Topics, t)
		}
		o.Lessons = append(o.Lessons, l)
	}
	return o
}

func lessonIDs(o model.Outline) []string {
	out := make([]string, 0, len(o.Lessons))
	for _, l := range o.Lessons {
		out = append(out, l.ID)
	}
	return out
}

func topicIDs(l *model.Lesson) []string {
	out := make([]string, 0, len(l.Topics))
	for _, t := range l.Topics {
		out = append(out, t.ID)
	}
	return out
}

func subtopicIDs(t *model.Topic) []string {
	out := make([]string, 0, len(t.Subtopics))
	for _, s := range t.Subtopics {
		out = append(out, s.ID)
	}
	return out
}

func assertIDs(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", what, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", what, got, want)
		}
	}
}
