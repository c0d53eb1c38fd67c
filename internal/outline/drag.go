package outline

import "coursecraft-cli/internal/model"

// Drag follows one drag gesture. Each hover over a position that differs from
// the dragged item's last known position issues exactly one move, so the
// displayed order always matches the live drag position. Repeated hovers over
// the same position are no-ops.
type Drag struct {
	id string
	at model.Path
}

// StartDrag begins dragging the node at p.
func StartDrag(o model.Outline, p model.Path) (*Drag, error) {
	n, ok := NodeAt(o, p)
	if !ok {
		return nil, errPath(p, "nothing to drag")
	}
	return &Drag{id: n.ID(), at: p}, nil
}

func (d *Drag) NodeID() string { return d.id }
func (d *Drag) At() model.Path { return d.at }
func (d *Drag) Kind() model.NodeKind { return d.at.Kind() }

// Hover reports the item being dragged over target. It returns the new snapshot
// and whether a move was issued. Targets the dragged item cannot move to (other
// levels, other lessons for topics and subtopics, out-of-range indices) are
// ignored.
func (d *Drag) Hover(o model.Outline, target model.Path) (model.Outline, bool) {
	if n, ok := NodeAt(o, d.at); !ok || n.ID() != d.id {
		p, found := PathOf(o, d.id)
		if !found {
			return o, false
		}
		d.at = p
	}
	if target.Lesson < 0 || target.Lesson >= len(o.Lessons) {
		return o, false
	}

	switch d.at.Kind() {
	case model.NodeLesson:
		if target.Lesson == d.at.Lesson {
			return o, false
		}
		next := MoveLesson(o, d.at.Lesson, target.Lesson)
		d.at = model.LessonPath(target.Lesson)
		return next, true

	case model.NodeTopic:
		l := o.Lessons[d.at.Lesson]
		if target.Lesson != d.at.Lesson || target.Topic < 0 || target.Topic >= len(l.Topics) {
			return o, false
		}
		if target.Topic == d.at.Topic {
			return o, false
		}
		next := MoveTopic(o, d.at.Lesson, d.at.Topic, target.Topic)
		d.at = model.TopicPath(d.at.Lesson, target.Topic)
		return next, true

	case model.NodeSubtopic:
		l := o.Lessons[d.at.Lesson]
		if target.Lesson != d.at.Lesson || target.Topic < 0 || target.Topic >= len(l.Topics) {
			return o, false
		}
		dst := l.Topics[target.Topic]
		toSub := target.Subtopic
		if toSub < 0 {
			// Hovering a topic header: join the end of that topic.
			if target.Topic == d.at.Topic {
				return o, false
			}
			toSub = len(dst.Subtopics)
		}
		if target.Topic == d.at.Topic {
			if toSub >= len(dst.Subtopics) || toSub == d.at.Subtopic {
				return o, false
			}
		} else if toSub > len(dst.Subtopics) {
			return o, false
		}
		next := MoveSubtopic(o, d.at.Lesson, d.at.Topic, target.Topic, d.at.Subtopic, toSub)
		d.at = model.SubtopicPath(d.at.Lesson, target.Topic, toSub)
		return next, true
	}
	return o, false
}
