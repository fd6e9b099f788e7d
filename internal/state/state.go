// Package state holds the single source-of-truth application state and
// the reducer that applies every transition to it. All shared state
// flows through Store.Dispatch; nothing else may write a selection
// field.
package state

import "github.com/okozlov/quill/internal/kb"

// Filters are process-wide view settings, never persisted.
type Filters struct {
	EditMode  bool
	TagFilter string
}

// AppState is the aggregate the views read. Entity pointers are treated
// as immutable once stored; a transition replaces them wholesale.
type AppState struct {
	User          *kb.User
	Filters       Filters
	Category      *kb.Category
	Question      *kb.Question
	Answer        *kb.Answer
	LoadingAnswer bool
}

// Action is a state transition request. Implementations are the only
// way to mutate AppState.
type Action interface {
	apply(AppState) AppState
}

type SetUser struct{ User *kb.User }

// SetFilters shallow-merges the provided fields into the current
// filters.
type SetFilters struct {
	EditMode  *bool
	TagFilter *string
}

// ApplyFilters replaces the tag filter. Downstream question-list
// bindings re-issue their query on this change; the store itself never
// fetches.
type ApplyFilters struct{ TagFilter string }

// SetCategory selects a category and unconditionally clears the
// dependent question and answer. A question from another category must
// never survive a category switch.
type SetCategory struct{ Category *kb.Category }

// SetQuestion selects a question and marks the paired answer fetch as
// in flight.
type SetQuestion struct{ Question *kb.Question }

// SetAnswer stores a fetched or mutated answer and ends the answer
// load.
type SetAnswer struct{ Answer *kb.Answer }

type SetLoadingAnswer struct{ Loading bool }

// ClearSelection drops the question/answer pair without touching the
// category. This is the explicit action behind the "new question" flow;
// no view writes state fields directly.
type ClearSelection struct{}

func (a SetUser) apply(s AppState) AppState {
	s.User = a.User
	return s
}

func (a SetFilters) apply(s AppState) AppState {
	if a.EditMode != nil {
		s.Filters.EditMode = *a.EditMode
	}
	if a.TagFilter != nil {
		s.Filters.TagFilter = *a.TagFilter
	}
	return s
}

func (a ApplyFilters) apply(s AppState) AppState {
	s.Filters.TagFilter = a.TagFilter
	return s
}

func (a SetCategory) apply(s AppState) AppState {
	s.Category = a.Category
	s.Question = nil
	s.Answer = nil
	s.LoadingAnswer = false
	return s
}

func (a SetQuestion) apply(s AppState) AppState {
	s.Question = a.Question
	s.LoadingAnswer = true
	return s
}

func (a SetAnswer) apply(s AppState) AppState {
	s.Answer = a.Answer
	s.LoadingAnswer = false
	return s
}

func (a SetLoadingAnswer) apply(s AppState) AppState {
	s.LoadingAnswer = a.Loading
	return s
}

func (a ClearSelection) apply(s AppState) AppState {
	s.Question = nil
	s.Answer = nil
	s.LoadingAnswer = false
	return s
}
