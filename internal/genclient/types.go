package genclient

// Wire types for the content-generation service. Field names follow the
// service's JSON, which is not uniform between the plan and lesson endpoints.

type CoursePlanRequest struct {
	CourseName        string `json:"course_name"`
	CourseDescription string `json:"course_description"`
	Prerequisites     string `json:"prerequisites"`
	NumberOfLessons   int    `json:"number_of_lessons,string"`
}

type CoursePlan struct {
	Course []PlanLesson `json:"course"`
}

type PlanLesson struct {
	ID                 string      `json:"id,omitempty"`
	Title              string      `json:"lesson_title"`
	Description        string      `json:"description"`
	LearningObjectives []string    `json:"learningObjectives"`
	Topics             []PlanTopic `json:"topics"`
}

type PlanTopic struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

type generateLessonsRequest struct {
	CoursePlan CoursePlan `json:"course_plan"`
}

// LessonDoc is a fully generated lesson as returned by /generate_lessons. It is
// also the on-disk format the CLI reads and writes; node ids round-trip through
// the optional id fields.
type LessonDoc struct {
	ID                 string     `json:"id"`
	Title              string     `json:"lesson_title"`
	Description        string     `json:"lesson_description"`
	LearningObjectives []string   `json:"learning_objectives"`
	Topics             []TopicDoc `json:"topics"`
}

type TopicDoc struct {
	ID        string        `json:"id,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Subtopics []SubtopicDoc `json:"subtopics"`
}

type SubtopicDoc struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type contentResponse struct {
	Content string `json:"content"`
}

type factCheckRequest struct {
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Subtopics []SubtopicDoc `json:"subtopics"`
}

type FactCheckResult struct {
	Fact           string  `json:"fact"`
	Status         string  `json:"status"`
	BestSimilarity float64 `json:"best_similarity"`
	BestSource     string  `json:"best_source"`
	Text           string  `json:"text"`
}
