// Package kb holds the knowledge-base entities the client works with.
// Relationships (question→category, answer→question) are owned by the
// server; the client only ever sees pre-filtered slices of them.
package kb

import "strings"

type Category struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	ParentID string      `json:"parentId,omitempty"`
	Children []*Category `json:"children,omitempty"`
}

type Question struct {
	ID           string `json:"id"`
	QuestionText string `json:"questionText"`
	Tags         []Tag  `json:"tags,omitempty"`
}

// Answer is treated as 1:1 with Question. The server contract never
// promised that, so the client fetches on demand and takes the single
// returned row as the answer.
type Answer struct {
	ID         string `json:"id"`
	AnswerText string `json:"answerText"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// QuestionType is sent with every question create/update. It is not part
// of the edit buffer and does not participate in dirty tracking.
type QuestionType string

const (
	QuestionWithTopic QuestionType = "QUESTION_WITH_TOPIC"
	ShortDialog       QuestionType = "SHORT_DIALOG"
	AlgorithmTask     QuestionType = "ALGORITHM_TASK"
)

// QuestionTypes lists the valid types in cycle order for the editor.
func QuestionTypes() []QuestionType {
	return []QuestionType{QuestionWithTopic, ShortDialog, AlgorithmTask}
}

// NextQuestionType cycles through the known types, defaulting to
// QuestionWithTopic for anything unrecognized.
func NextQuestionType(qt QuestionType) QuestionType {
	types := QuestionTypes()
	for i, t := range types {
		if t == qt {
			return types[(i+1)%len(types)]
		}
	}
	return QuestionWithTopic
}

// HasTag reports membership by id, the set identity for tags.
func (q *Question) HasTag(id string) bool {
	for _, t := range q.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// SameTagSet compares two tag lists as sets by id, ignoring order.
func SameTagSet(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[string]struct{}, len(a))
	for _, t := range a {
		ids[t.ID] = struct{}{}
	}
	for _, t := range b {
		if _, ok := ids[t.ID]; !ok {
			return false
		}
	}
	return true
}

// ToggleTag adds the tag when absent and removes it when present,
// returning the new set.
func ToggleTag(tags []Tag, tag Tag) []Tag {
	out := make([]Tag, 0, len(tags)+1)
	removed := false
	for _, t := range tags {
		if t.ID == tag.ID {
			removed = true
			continue
		}
		out = append(out, t)
	}
	if !removed {
		out = append(out, tag)
	}
	return out
}

// MatchesTagFilter reports whether any of the question's tags contains
// the filter as a case-insensitive substring. An empty filter matches
// everything.
func (q *Question) MatchesTagFilter(filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, t := range q.Tags {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return true
		}
	}
	return false
}
