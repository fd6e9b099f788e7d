package editbuf

import (
	"context"

	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
)

// AnswerCommitter is the slice of the gateway the answer editor needs.
// Answers have no create path; only updates.
type AnswerCommitter interface {
	UpdateAnswer(ctx context.Context, answerID, text string) (*kb.Answer, error)
}

// AnswerEditor manages the answer text buffer. Same protocol as the
// question editor, minus creation.
type AnswerEditor struct {
	buf    Buffer
	store  *state.Store
	remote AnswerCommitter

	boundID string
}

func NewAnswerEditor(store *state.Store, remote AnswerCommitter) *AnswerEditor {
	return &AnswerEditor{store: store, remote: remote}
}

// Sync rebinds the buffer when the selected answer's identity changes.
func (e *AnswerEditor) Sync(st state.AppState) {
	id := ""
	baseline := ""
	if st.Answer != nil {
		id = st.Answer.ID
		baseline = st.Answer.AnswerText
	}

	if id == e.boundID {
		return
	}

	e.boundID = id
	e.buf.Reset(baseline)
}

func (e *AnswerEditor) SetText(text string) { e.buf.SetText(text) }
func (e *AnswerEditor) Text() string        { return e.buf.Text() }
func (e *AnswerEditor) Dirty() bool         { return e.buf.Dirty() }

func (e *AnswerEditor) CanCommit() bool {
	return e.boundID != "" && e.buf.CanCommit()
}

func (e *AnswerEditor) CanRevert() bool {
	return e.boundID != "" && e.buf.Dirty()
}

// Commit pushes the edited answer text. On success the echoed answer
// becomes the stored one and the buffer rebinds. On failure the buffer
// stays dirty and untouched.
func (e *AnswerEditor) Commit(ctx context.Context) (*kb.Answer, error) {
	if e.boundID == "" {
		return nil, ErrNoAnswerSelected
	}
	if !e.buf.CanCommit() {
		return nil, ErrCommitBlocked
	}

	result, err := e.remote.UpdateAnswer(ctx, e.boundID, e.buf.Text())
	if err != nil {
		return nil, err
	}

	e.store.Dispatch(state.SetAnswer{Answer: result})

	e.boundID = result.ID
	e.buf.Reset(result.AnswerText)

	return result, nil
}

func (e *AnswerEditor) Revert() error {
	if !e.CanRevert() {
		return ErrRevertBlocked
	}
	e.buf.Revert()
	return nil
}
