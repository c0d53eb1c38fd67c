package outline

import (
	"strings"

	"coursecraft-cli/internal/model"
)

// NodeAt resolves p against o.
func NodeAt(o model.Outline, p model.Path) (model.Node, bool) {
	if p.Lesson < 0 || p.Lesson >= len(o.Lessons) {
		return model.Node{}, false
	}
	l := o.Lessons[p.Lesson]
	if p.Topic < 0 {
		if p.Subtopic >= 0 {
			return model.Node{}, false
		}
		return model.Node{Kind: model.NodeLesson, Lesson: l}, true
	}
	if p.Topic >= len(l.Topics) {
		return model.Node{}, false
	}
	t := l.Topics[p.Topic]
	if p.Subtopic < 0 {
		return model.Node{Kind: model.NodeTopic, Lesson: l, Topic: t}, true
	}
	if p.Subtopic >= len(t.Subtopics) {
		return model.Node{}, false
	}
	return model.Node{Kind: model.NodeSubtopic, Lesson: l, Topic: t, Subtopic: t.Subtopics[p.Subtopic]}, true
}

// PathOf returns the current path of the node with the given identity.
func PathOf(o model.Outline, id string) (model.Path, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Path{}, false
	}
	for li, l := range o.Lessons {
		if l.ID == id {
			return model.LessonPath(li), true
		}
		for ti, t := range l.Topics {
			if t.ID == id {
				return model.TopicPath(li, ti), true
			}
			for si, s := range t.Subtopics {
				if s.ID == id {
					return model.SubtopicPath(li, ti, si), true
				}
			}
		}
	}
	return model.Path{}, false
}

// Find resolves a node by identity. Used to re-select the current node after
// the tree changes shape.
func Find(o model.Outline, id string) (model.Node, model.Path, bool) {
	p, ok := PathOf(o, id)
	if !ok {
		return model.Node{}, model.Path{}, false
	}
	n, ok := NodeAt(o, p)
	return n, p, ok
}

// LessonIndex returns the index of the lesson with the given id, or -1.
func LessonIndex(o model.Outline, id string) int {
	for i, l := range o.Lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// UpdateContentAt returns a copy of o in which the node at p has its content
// replaced. Ancestors along p are shallow-copied; every other subtree is shared
// with o. A lesson path replaces the lesson description.
func UpdateContentAt(o model.Outline, p model.Path, content string) (model.Outline, error) {
	if _, ok := NodeAt(o, p); !ok {
		return o, errPath(p, "path does not resolve")
	}

	lessons := append([]*model.Lesson(nil), o.Lessons...)
	l := *lessons[p.Lesson]
	lessons[p.Lesson] = &l
	if p.Topic < 0 {
		l.Description = content
		return model.Outline{Lessons: lessons}, nil
	}

	l.Topics = append([]*model.Topic(nil), l.Topics...)
	t := *l.Topics[p.Topic]
	l.Topics[p.Topic] = &t
	if p.Subtopic < 0 {
		t.Content = content
		return model.Outline{Lessons: lessons}, nil
	}

	t.Subtopics = append([]*model.Subtopic(nil), t.Subtopics...)
	s := *t.Subtopics[p.Subtopic]
	s.Content = content
	t.Subtopics[p.Subtopic] = &s
	return model.Outline{Lessons: lessons}, nil
}

// UpdateContentByID is UpdateContentAt with the path derived from the node's
// identity in o, so results stay attached to the node across reorders.
func UpdateContentByID(o model.Outline, id, content string) (model.Outline, model.Path, error) {
	p, ok := PathOf(o, id)
	if !ok {
		return o, model.Path{}, errNode(id, "node no longer exists")
	}
	next, err := UpdateContentAt(o, p, content)
	return next, p, err
}

// Count returns the number of lessons, topics and subtopics in o.
func Count(o model.Outline) (lessons, topics, subtopics int) {
	lessons = len(o.Lessons)
	for _, l := range o.Lessons {
		topics += len(l.Topics)
		for _, t := range l.Topics {
			subtopics += len(t.Subtopics)
		}
	}
	return lessons, topics, subtopics
}
