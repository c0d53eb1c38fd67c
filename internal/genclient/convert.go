package genclient

import (
	"coursecraft-cli/internal/model"
	"coursecraft-cli/internal/outline"
)

// OutlineFromLessons builds the initial tree from generated lessons. Nodes
// without an id get one here, once.
func OutlineFromLessons(docs []LessonDoc) model.Outline {
	var o model.Outline
	for _, d := range docs {
		l := &model.Lesson{
			ID:                 d.ID,
			Title:              d.Title,
			Description:        d.Description,
			LearningObjectives: append([]string(nil), d.LearningObjectives...),
		}
		for _, td := range d.Topics {
			t := &model.Topic{ID: td.ID, Title: td.Title, Content: td.Content}
			for _, sd := range td.Subtopics {
				t.Subtopics = append(t.Subtopics, &model.Subtopic{ID: sd.ID, Title: sd.Title, Content: sd.Content})
			}
			l.Topics = append(l.Topics, t)
		}
		o.Lessons = append(o.Lessons, l)
	}
	return outline.AssignIDs(o)
}

// LessonsFromOutline is the inverse of OutlineFromLessons.
func LessonsFromOutline(o model.Outline) []LessonDoc {
	out := make([]LessonDoc, 0, len(o.Lessons))
	for _, l := range o.Lessons {
		d := LessonDoc{
			ID:                 l.ID,
			Title:              l.Title,
			Description:        l.Description,
			LearningObjectives: append([]string{}, l.LearningObjectives...),
			Topics:             make([]TopicDoc, 0, len(l.Topics)),
		}
		for _, t := range l.Topics {
			td := TopicDoc{ID: t.ID, Title: t.Title, Content: t.Content, Subtopics: make([]SubtopicDoc, 0, len(t.Subtopics))}
			for _, s := range t.Subtopics {
				td.Subtopics = append(td.Subtopics, SubtopicDoc{ID: s.ID, Title: s.Title, Content: s.Content})
			}
			d.Topics = append(d.Topics, td)
		}
		out = append(out, d)
	}
	return out
}

// OutlineFromPlan builds a content-less tree from a course plan so the plan can
// be reordered before content is generated. Plan subtopics are bare titles.
func OutlineFromPlan(plan CoursePlan) model.Outline {
	var o model.Outline
	for _, pl := range plan.Course {
		l := &model.Lesson{
			ID:                 pl.ID,
			Title:              pl.Title,
			Description:        pl.Description,
			LearningObjectives: append([]string(nil), pl.LearningObjectives...),
		}
		for _, pt := range pl.Topics {
			t := &model.Topic{ID: pt.ID, Title: pt.Title}
			for _, title := range pt.Subtopics {
				t.Subtopics = append(t.Subtopics, &model.Subtopic{Title: title})
			}
			l.Topics = append(l.Topics, t)
		}
		o.Lessons = append(o.Lessons, l)
	}
	return outline.AssignIDs(o)
}

// PlanFromOutline turns a (possibly reordered) plan tree back into the request
// body for /generate_lessons.
func PlanFromOutline(o model.Outline) CoursePlan {
	plan := CoursePlan{Course: make([]PlanLesson, 0, len(o.Lessons))}
	for _, l := range o.Lessons {
		pl := PlanLesson{
			ID:                 l.ID,
			Title:              l.Title,
			Description:        l.Description,
			LearningObjectives: append([]string{}, l.LearningObjectives...),
			Topics:             make([]PlanTopic, 0, len(l.Topics)),
		}
		for _, t := range l.Topics {
			pt := PlanTopic{ID: t.ID, Title: t.Title, Subtopics: make([]string, 0, len(t.Subtopics))}
			for _, s := range t.Subtopics {
				pt.Subtopics = append(pt.Subtopics, s.Title)
			}
			pl.Topics = append(pl.Topics, pt)
		}
		plan.Course = append(plan.Course, pl)
	}
	return plan
}
