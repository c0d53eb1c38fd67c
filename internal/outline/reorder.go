package outline

import (
	"fmt"

	"coursecraft-cli/internal/model"
)

// Move functions relocate one item by removing it and reinserting it at the
// destination index. Every other item keeps its relative order and identity, and
// untouched subtrees are shared with the input snapshot.
//
// Indices are the caller's responsibility: out-of-range indices panic.

// MoveLesson moves the lesson at from to to.
func MoveLesson(o model.Outline, from, to int) model.Outline {
	mustIndex("lesson", from, len(o.Lessons))
	mustIndex("lesson", to, len(o.Lessons))
	if from == to {
		return o
	}
	return model.Outline{Lessons: moveWithin(o.Lessons, from, to)}
}

// MoveTopic moves a topic within the topics of one lesson.
func MoveTopic(o model.Outline, lessonIdx, from, to int) model.Outline {
	mustIndex("lesson", lessonIdx, len(o.Lessons))
	l := o.Lessons[lessonIdx]
	mustIndex("topic", from, len(l.Topics))
	mustIndex("topic", to, len(l.Topics))
	if from == to {
		return o
	}
	next := *l
	next.Topics = moveWithin(l.Topics, from, to)
	return withLesson(o, lessonIdx, &next)
}

// MoveSubtopic moves a subtopic within one lesson. When fromTopic and toTopic
// differ the subtopic leaves the source topic and is inserted into the
// destination topic at toSub; toSub may equal the destination length (append).
func MoveSubtopic(o model.Outline, lessonIdx, fromTopic, toTopic, fromSub, toSub int) model.Outline {
	mustIndex("lesson", lessonIdx, len(o.Lessons))
	l := o.Lessons[lessonIdx]
	mustIndex("topic", fromTopic, len(l.Topics))
	mustIndex("topic", toTopic, len(l.Topics))
	src := l.Topics[fromTopic]
	mustIndex("subtopic", fromSub, len(src.Subtopics))

	next := *l
	next.Topics = append([]*model.Topic(nil), l.Topics...)

	if fromTopic == toTopic {
		mustIndex("subtopic", toSub, len(src.Subtopics))
		if fromSub == toSub {
			return o
		}
		t := *src
		t.Subtopics = moveWithin(src.Subtopics, fromSub, toSub)
		next.Topics[fromTopic] = &t
		return withLesson(o, lessonIdx, &next)
	}

	dst := l.Topics[toTopic]
	mustIndex("subtopic", toSub, len(dst.Subtopics)+1)
	moved := src.Subtopics[fromSub]

	s := *src
	s.Subtopics = make([]*model.Subtopic, 0, len(src.Subtopics)-1)
	s.Subtopics = append(s.Subtopics, src.Subtopics[:fromSub]...)
	s.Subtopics = append(s.Subtopics, src.Subtopics[fromSub+1:]...)

	d := *dst
	d.Subtopics = make([]*model.Subtopic, 0, len(dst.Subtopics)+1)
	d.Subtopics = append(d.Subtopics, dst.Subtopics[:toSub]...)
	d.Subtopics = append(d.Subtopics, moved)
	d.Subtopics = append(d.Subtopics, dst.Subtopics[toSub:]...)

	next.Topics[fromTopic] = &s
	next.Topics[toTopic] = &d
	return withLesson(o, lessonIdx, &next)
}

// moveWithin returns a copy of xs with xs[from] relocated to to. Only the
// elements between from and to shift.
func moveWithin[T any](xs []T, from, to int) []T {
	out := append([]T(nil), xs...)
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

func withLesson(o model.Outline, idx int, l *model.Lesson) model.Outline {
	lessons := append([]*model.Lesson(nil), o.Lessons...)
	lessons[idx] = l
	return model.Outline{Lessons: lessons}
}

func mustIndex(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("outline: %s index %d out of range [0,%d)", kind, i, n))
	}
}
