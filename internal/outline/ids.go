package outline

import (
	"strings"

	"coursecraft-cli/internal/model"

	"github.com/google/uuid"
)

// NewID returns a fresh node identity.
func NewID() string {
	return uuid.NewString()
}

// AssignIDs returns o with an identity on every node that lacks one, or whose
// identity duplicates one already seen. Existing unique identities are kept.
// Identities are assigned once, when the tree is built; they are never
// regenerated afterwards.
func AssignIDs(o model.Outline) model.Outline {
	seen := map[string]bool{}
	fresh := func(id string) string {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		return id
	}

	lessons := make([]*model.Lesson, 0, len(o.Lessons))
	for _, l := range o.Lessons {
		if l == nil {
			continue
		}
		nl := *l
		nl.ID = fresh(l.ID)
		nl.Topics = make([]*model.Topic, 0, len(l.Topics))
		for _, t := range l.Topics {
			if t == nil {
				continue
			}
			nt := *t
			nt.ID = fresh(t.ID)
			nt.Subtopics = make([]*model.Subtopic, 0, len(t.Subtopics))
			for _, s := range t.Subtopics {
				if s == nil {
					continue
				}
				ns := *s
				ns.ID = fresh(s.ID)
				nt.Subtopics = append(nt.Subtopics, &ns)
			}
			nl.Topics = append(nl.Topics, &nt)
		}
		lessons = append(lessons, &nl)
	}
	return model.Outline{Lessons: lessons}
}
