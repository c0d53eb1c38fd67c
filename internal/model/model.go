package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Outline is one immutable snapshot of a course outline.
//
// Nodes reachable from a published snapshot are never modified; edits build new
// nodes along the edited path and share everything else.
type Outline struct {
	Lessons []*Lesson `json:"lessons"`
}

type Lesson struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learningObjectives"`
	Topics             []*Topic `json:"topics"`
}

type Topic struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Subtopics []*Subtopic `json:"subtopics"`
}

type Subtopic struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NodeKind string

const (
	NodeLesson   NodeKind = "lesson"
	NodeTopic    NodeKind = "topic"
	NodeSubtopic NodeKind = "subtopic"
)

// Node is a read-only view of whichever node a Path or id resolved to.
type Node struct {
	Kind     NodeKind
	Lesson   *Lesson
	Topic    *Topic
	Subtopic *Subtopic
}

func (n Node) ID() string {
	switch n.Kind {
	case NodeLesson:
		return n.Lesson.ID
	case NodeTopic:
		return n.Topic.ID
	case NodeSubtopic:
		return n.Subtopic.ID
	default:
		return ""
	}
}

func (n Node) Title() string {
	switch n.Kind {
	case NodeLesson:
		return n.Lesson.Title
	case NodeTopic:
		return n.Topic.Title
	case NodeSubtopic:
		return n.Subtopic.Title
	default:
		return ""
	}
}

// Content returns the node's free text. Lessons carry their description.
func (n Node) Content() string {
	switch n.Kind {
	case NodeLesson:
		return n.Lesson.Description
	case NodeTopic:
		return n.Topic.Content
	case NodeSubtopic:
		return n.Subtopic.Content
	default:
		return ""
	}
}

// Path addresses a node by position. Topic and Subtopic are -1 when absent.
// A Path is only meaningful against the snapshot it was computed from.
type Path struct {
	Lesson   int
	Topic    int
	Subtopic int
}

func LessonPath(l int) Path { return Path{Lesson: l, Topic: -1, Subtopic: -1} }
func TopicPath(l, t int) Path { return Path{Lesson: l, Topic: t, Subtopic: -1} }
func SubtopicPath(l, t, s int) Path { return Path{Lesson: l, Topic: t, Subtopic: s} }

func (p Path) Kind() NodeKind {
	switch {
	case p.Topic < 0:
		return NodeLesson
	case p.Subtopic < 0:
		return NodeTopic
	default:
		return NodeSubtopic
	}
}

// String renders the path as dotted indices, e.g. "0", "0.2", "0.2.1".
func (p Path) String() string {
	switch p.Kind() {
	case NodeLesson:
		return strconv.Itoa(p.Lesson)
	case NodeTopic:
		return fmt.Sprintf("%d.%d", p.Lesson, p.Topic)
	default:
		return fmt.Sprintf("%d.%d.%d", p.Lesson, p.Topic, p.Subtopic)
	}
}

// ParsePath parses the dotted form produced by Path.String.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, fmt.Errorf("invalid path: empty")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Path{}, fmt.Errorf("invalid path %q: at most lesson.topic.subtopic", s)
	}
	idx := []int{-1, -1, -1}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return Path{}, fmt.Errorf("invalid path %q: %q is not a non-negative index", s, part)
		}
		idx[i] = n
	}
	return Path{Lesson: idx[0], Topic: idx[1], Subtopic: idx[2]}, nil
}

type OpKind string

const (
	OpRegenerate OpKind = "regenerate"
	OpExpand     OpKind = "expand"
	OpShorten    OpKind = "shorten"
	OpFactCheck  OpKind = "fact_check"
)

func ParseOpKind(s string) (OpKind, error) {
	switch k := OpKind(strings.ToLower(strings.TrimSpace(s))); k {
	case OpRegenerate, OpExpand, OpShorten, OpFactCheck:
		return k, nil
	case "fact-check", "factcheck":
		return OpFactCheck, nil
	default:
		return "", fmt.Errorf("unknown operation: %q (want regenerate|expand|shorten|fact_check)", s)
	}
}

// EditsContent reports whether a successful result replaces the node's content.
func (k OpKind) EditsContent() bool {
	return k == OpRegenerate || k == OpExpand || k == OpShorten
}

// OperationKey identifies one asynchronous request: a node identity plus an operation kind.
type OperationKey struct {
	NodeID string `json:"nodeId"`
	Kind   OpKind `json:"kind"`
}

func (k OperationKey) String() string {
	return k.NodeID + "/" + string(k.Kind)
}

type FactStatus string

const (
	FactVerified   FactStatus = "verified"
	FactModerate   FactStatus = "moderate"
	FactUnverified FactStatus = "unverified"
)

// FactCheck is one claim extracted from a topic and its verification outcome.
type FactCheck struct {
	Fact       string  `json:"fact"`
	Status     string  `json:"status"`
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"`
	Excerpt    string  `json:"excerpt"`
}

func (f FactCheck) NormalizedStatus() FactStatus {
	return FactStatus(strings.ToLower(strings.TrimSpace(f.Status)))
}
