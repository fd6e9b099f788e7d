package editbuf

import (
	"context"
	"errors"

	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
)

var (
	ErrCommitBlocked    = errors.New("commit blocked: buffer empty or unchanged")
	ErrNoCategory       = errors.New("no category selected")
	ErrNoAnswerSelected = errors.New("no answer selected")
	ErrRevertBlocked    = errors.New("revert blocked: buffer matches baseline")
	ErrNewBlocked       = errors.New("new blocked: no question selected")
)

// QuestionCommitter is the slice of the gateway the question editor
// needs.
type QuestionCommitter interface {
	CreateQuestion(ctx context.Context, text, categoryID string, qt kb.QuestionType) (*gateway.QuestionMutation, error)
	UpdateQuestion(ctx context.Context, id, text string, qt kb.QuestionType) (*gateway.QuestionMutation, error)
}

// QuestionEditor manages the question text buffer and runs the
// commit/revert/new protocol against the store and gateway.
type QuestionEditor struct {
	buf    Buffer
	qtype  kb.QuestionType
	store  *state.Store
	remote QuestionCommitter

	// identity of the question the buffer is bound to, "" for none
	boundID string
}

func NewQuestionEditor(store *state.Store, remote QuestionCommitter) *QuestionEditor {
	return &QuestionEditor{
		qtype:  kb.QuestionWithTopic,
		store:  store,
		remote: remote,
	}
}

// Sync rebinds the buffer when the selected question's identity has
// changed, including to or from none. Edits to the same selection are
// left alone.
func (e *QuestionEditor) Sync(st state.AppState) {
	id := ""
	baseline := ""
	if st.Question != nil {
		id = st.Question.ID
		baseline = st.Question.QuestionText
	}

	if id == e.boundID {
		return
	}

	e.boundID = id
	e.buf.Reset(baseline)
}

func (e *QuestionEditor) SetText(text string) { e.buf.SetText(text) }
func (e *QuestionEditor) Text() string        { return e.buf.Text() }
func (e *QuestionEditor) Dirty() bool         { return e.buf.Dirty() }

func (e *QuestionEditor) QuestionType() kb.QuestionType { return e.qtype }

func (e *QuestionEditor) SetQuestionType(qt kb.QuestionType) { e.qtype = qt }

// CycleQuestionType advances to the next type; the type rides along
// with every commit but never affects dirtiness.
func (e *QuestionEditor) CycleQuestionType() kb.QuestionType {
	e.qtype = kb.NextQuestionType(e.qtype)
	return e.qtype
}

func (e *QuestionEditor) CanCommit() bool { return e.buf.CanCommit() }

func (e *QuestionEditor) CanRevert() bool {
	return e.boundID != "" && e.buf.Dirty()
}

func (e *QuestionEditor) CanNew() bool { return e.boundID != "" }

// Commit updates the selected question, or creates one in the selected
// category when none is selected. On success the returned question
// becomes the new selection and the buffer rebinds to the echoed text.
// On failure the buffer stays dirty and untouched.
func (e *QuestionEditor) Commit(ctx context.Context) (*gateway.QuestionMutation, error) {
	if !e.CanCommit() {
		return nil, ErrCommitBlocked
	}

	st := e.store.State()

	var result *gateway.QuestionMutation
	var err error
	if st.Question != nil {
		result, err = e.remote.UpdateQuestion(ctx, st.Question.ID, e.buf.Text(), e.qtype)
	} else {
		if st.Category == nil {
			return nil, ErrNoCategory
		}
		result, err = e.remote.CreateQuestion(ctx, e.buf.Text(), st.Category.ID, e.qtype)
	}
	if err != nil {
		return nil, err
	}

	e.store.Dispatch(state.SetQuestion{Question: result.Question})
	e.store.Dispatch(state.SetAnswer{Answer: result.Answer})

	e.boundID = result.Question.ID
	e.buf.Reset(result.Question.QuestionText)

	return result, nil
}

// Revert restores the baseline text.
func (e *QuestionEditor) Revert() error {
	if !e.CanRevert() {
		return ErrRevertBlocked
	}
	e.buf.Revert()
	return nil
}

// New clears the buffer and drops the selection so the next commit
// creates a question. Callers refetch the question list afterwards.
func (e *QuestionEditor) New() error {
	if !e.CanNew() {
		return ErrNewBlocked
	}

	e.boundID = ""
	e.buf.Reset("")
	e.store.Dispatch(state.ClearSelection{})
	return nil
}
