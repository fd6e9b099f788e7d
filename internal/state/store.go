package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/okozlov/quill/internal/kb"
)

// Store owns AppState. Dispatches are serialized; each one applies a
// single action and notifies subscribers with the resulting snapshot.
type Store struct {
	mu    sync.Mutex
	state AppState
	subs  []func(AppState)
	log   *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log}
}

// Dispatch applies the action and notifies subscribers. Subscribers run
// under the dispatch lock, so they must not dispatch re-entrantly.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = a.apply(s.state)
	for _, sub := range s.subs {
		sub(s.state)
	}
}

// State returns a snapshot of the current state. Entity pointers in the
// snapshot are shared but immutable.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked after every dispatch.
func (s *Store) Subscribe(fn func(AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// ApplyAnswerFor stores a fetched answer only when the question that
// produced it is still the selected question. Late results for a
// superseded selection are dropped silently.
func (s *Store) ApplyAnswerFor(questionID string, answer *kb.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Question == nil || s.state.Question.ID != questionID {
		s.log.Debug("dropping stale answer response",
			zap.String("question_id", questionID),
		)
		return false
	}

	s.state = SetAnswer{Answer: answer}.apply(s.state)
	for _, sub := range s.subs {
		sub(s.state)
	}
	return true
}

// SelectedQuestionID reports the current question selection, empty when
// none. Fetch completions gate on this to discard stale responses.
func (s *Store) SelectedQuestionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Question == nil {
		return ""
	}
	return s.state.Question.ID
}
