package editbuf_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okozlov/quill/internal/editbuf"
	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
)

type fakeRemote struct {
	createCalls int
	updateCalls int

	lastText       string
	lastCategoryID string
	lastQuestionID string
	lastType       kb.QuestionType

	result *gateway.QuestionMutation
	answer *kb.Answer
	err    error
}

func (f *fakeRemote) CreateQuestion(_ context.Context, text, categoryID string, qt kb.QuestionType) (*gateway.QuestionMutation, error) {
	f.createCalls++
	f.lastText = text
	f.lastCategoryID = categoryID
	f.lastType = qt
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRemote) UpdateQuestion(_ context.Context, id, text string, qt kb.QuestionType) (*gateway.QuestionMutation, error) {
	f.updateCalls++
	f.lastQuestionID = id
	f.lastText = text
	f.lastType = qt
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRemote) UpdateAnswer(_ context.Context, answerID, text string) (*kb.Answer, error) {
	f.updateCalls++
	f.lastQuestionID = answerID
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func TestDirtyTrackingLaw(t *testing.T) {
	store := state.NewStore(nil)
	e := editbuf.NewQuestionEditor(store, &fakeRemote{})

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())

	if e.Dirty() {
		t.Fatal("fresh buffer must be clean")
	}

	e.SetText("Explain X in detail")
	if !e.Dirty() {
		t.Fatal("edited buffer must be dirty")
	}

	// Typing back to the exact baseline goes clean again.
	e.SetText("Explain X")
	if e.Dirty() {
		t.Fatal("buffer equal to baseline must be clean")
	}
	if e.CanRevert() {
		t.Fatal("revert must be disabled when buffer equals baseline")
	}

	e.SetText("Explain Y")
	if err := e.Revert(); err != nil {
		t.Fatalf("expected revert to succeed: %v", err)
	}
	if e.Dirty() || e.Text() != "Explain X" {
		t.Fatalf("expected reverted clean buffer, got dirty=%v text=%q", e.Dirty(), e.Text())
	}
}

func TestSelectionChangeRebindsBuffer(t *testing.T) {
	store := state.NewStore(nil)
	e := editbuf.NewQuestionEditor(store, &fakeRemote{})

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "First"}})
	e.Sync(store.State())
	e.SetText("local edit")

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q2", QuestionText: "Second"}})
	e.Sync(store.State())

	if e.Text() != "Second" || e.Dirty() {
		t.Fatalf("expected buffer rebound to new selection, got %q dirty=%v", e.Text(), e.Dirty())
	}

	// Same identity: Sync must not clobber in-progress edits.
	e.SetText("Second, edited")
	e.Sync(store.State())
	if e.Text() != "Second, edited" {
		t.Fatalf("expected edits preserved for same selection, got %q", e.Text())
	}

	store.Dispatch(state.ClearSelection{})
	e.Sync(store.State())
	if e.Text() != "" {
		t.Fatalf("expected empty buffer for empty selection, got %q", e.Text())
	}
}

// New question flow: nothing selected, user types, commit issues a
// create mutation and the response becomes the new selection.
func TestCommitCreatesWhenNoQuestionSelected(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{
		result: &gateway.QuestionMutation{
			Category: &kb.Category{ID: "c1"},
			Question: &kb.Question{ID: "Q99", QuestionText: "What is TCP?"},
			Answer:   &kb.Answer{ID: "a99"},
		},
	}
	e := editbuf.NewQuestionEditor(store, remote)

	store.Dispatch(state.SetCategory{Category: &kb.Category{ID: "c1"}})
	e.Sync(store.State())
	e.SetText("What is TCP?")

	result, err := e.Commit(context.Background())
	if err != nil {
		t.Fatalf("expected commit to succeed: %v", err)
	}

	if remote.createCalls != 1 || remote.updateCalls != 0 {
		t.Fatalf("expected exactly one create, got create=%d update=%d", remote.createCalls, remote.updateCalls)
	}
	if remote.lastText != "What is TCP?" || remote.lastCategoryID != "c1" {
		t.Fatalf("unexpected mutation variables: text=%q category=%q", remote.lastText, remote.lastCategoryID)
	}
	if remote.lastType != kb.QuestionWithTopic {
		t.Fatalf("expected default question type, got %s", remote.lastType)
	}

	st := store.State()
	if st.Question == nil || st.Question.ID != "Q99" {
		t.Fatalf("expected selection Q99, got %+v", st.Question)
	}
	if e.Dirty() {
		t.Fatal("expected clean buffer after commit")
	}
	if result.Question.ID != "Q99" {
		t.Fatalf("expected echoed result, got %+v", result)
	}
}

func TestCommitUpdatesWhenQuestionSelected(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{
		result: &gateway.QuestionMutation{
			Question: &kb.Question{ID: "q1", QuestionText: "Explain Y"},
			Answer:   &kb.Answer{ID: "a1"},
		},
	}
	e := editbuf.NewQuestionEditor(store, remote)

	store.Dispatch(state.SetCategory{Category: &kb.Category{ID: "c1"}})
	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())
	e.SetText("Explain Y")

	if _, err := e.Commit(context.Background()); err != nil {
		t.Fatalf("expected commit to succeed: %v", err)
	}

	if remote.updateCalls != 1 || remote.createCalls != 0 {
		t.Fatalf("expected exactly one update, got create=%d update=%d", remote.createCalls, remote.updateCalls)
	}
	if remote.lastQuestionID != "q1" {
		t.Fatalf("expected update of q1, got %q", remote.lastQuestionID)
	}

	// Round-trip: the echoed text is the new baseline.
	if e.Dirty() || e.Text() != "Explain Y" {
		t.Fatalf("expected clean buffer at echoed baseline, got dirty=%v text=%q", e.Dirty(), e.Text())
	}
}

func TestCommitPreconditions(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{}
	e := editbuf.NewQuestionEditor(store, remote)

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())

	// Unchanged buffer.
	if _, err := e.Commit(context.Background()); !errors.Is(err, editbuf.ErrCommitBlocked) {
		t.Fatalf("expected ErrCommitBlocked for no-op, got %v", err)
	}

	// Whitespace only.
	e.SetText("   \n\t")
	if _, err := e.Commit(context.Background()); !errors.Is(err, editbuf.ErrCommitBlocked) {
		t.Fatalf("expected ErrCommitBlocked for blank buffer, got %v", err)
	}

	if remote.createCalls+remote.updateCalls != 0 {
		t.Fatal("expected no remote calls for blocked commits")
	}

	// Create path with no category selected.
	store.Dispatch(state.SetCategory{Category: nil})
	e.Sync(store.State())
	e.SetText("orphan question")
	if _, err := e.Commit(context.Background()); !errors.Is(err, editbuf.ErrNoCategory) {
		t.Fatalf("expected ErrNoCategory, got %v", err)
	}
}

func TestFailedCommitLeavesBufferDirty(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{err: errors.New("network down")}
	e := editbuf.NewQuestionEditor(store, remote)

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())
	e.SetText("Explain Y")

	if _, err := e.Commit(context.Background()); err == nil {
		t.Fatal("expected commit failure")
	}

	if !e.Dirty() || e.Text() != "Explain Y" {
		t.Fatalf("expected untouched dirty buffer after failure, got dirty=%v text=%q", e.Dirty(), e.Text())
	}
	if store.State().Question.QuestionText != "Explain X" {
		t.Fatal("expected state untouched after failed commit")
	}
}

func TestNewClearsSelectionAndBuffer(t *testing.T) {
	store := state.NewStore(nil)
	e := editbuf.NewQuestionEditor(store, &fakeRemote{})

	// New is disabled from a blank state.
	if err := e.New(); !errors.Is(err, editbuf.ErrNewBlocked) {
		t.Fatalf("expected ErrNewBlocked, got %v", err)
	}

	store.Dispatch(state.SetCategory{Category: &kb.Category{ID: "c1"}})
	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())

	if err := e.New(); err != nil {
		t.Fatalf("expected new to succeed: %v", err)
	}

	st := store.State()
	if st.Question != nil || st.Answer != nil || st.LoadingAnswer {
		t.Fatalf("expected cleared selection, got %+v", st)
	}
	if e.Text() != "" || e.Dirty() {
		t.Fatalf("expected empty clean buffer, got %q dirty=%v", e.Text(), e.Dirty())
	}
}

// A transcript arriving mid-typing is just another write to the same
// buffer; the last write wins and dirtiness follows the baseline.
func TestTranscriptInjectionIsLastWriteWins(t *testing.T) {
	store := state.NewStore(nil)
	e := editbuf.NewQuestionEditor(store, &fakeRemote{})

	store.Dispatch(state.SetCategory{Category: &kb.Category{ID: "c1"}})
	e.Sync(store.State())

	e.SetText("Explain X")
	e.SetText("Explain Y") // transcript lands last

	if e.Text() != "Explain Y" {
		t.Fatalf("expected last write to win, got %q", e.Text())
	}
	if !e.Dirty() {
		t.Fatal("expected dirty buffer: text differs from empty baseline")
	}
}

func TestQuestionTypeRidesAlongWithoutDirtying(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{
		result: &gateway.QuestionMutation{
			Question: &kb.Question{ID: "q1", QuestionText: "Explain X"},
		},
	}
	e := editbuf.NewQuestionEditor(store, remote)

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1", QuestionText: "Explain X"}})
	e.Sync(store.State())

	if e.CycleQuestionType() != kb.ShortDialog {
		t.Fatal("expected cycle to SHORT_DIALOG")
	}
	if e.Dirty() {
		t.Fatal("question type change must not dirty the buffer")
	}

	e.SetText("Explain X, briefly")
	if _, err := e.Commit(context.Background()); err != nil {
		t.Fatalf("expected commit to succeed: %v", err)
	}
	if remote.lastType != kb.ShortDialog {
		t.Fatalf("expected commit to carry SHORT_DIALOG, got %s", remote.lastType)
	}
}

func TestAnswerEditorCommitRoundTrip(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{answer: &kb.Answer{ID: "a1", AnswerText: "updated text"}}
	e := editbuf.NewAnswerEditor(store, remote)

	store.Dispatch(state.SetQuestion{Question: &kb.Question{ID: "q1"}})
	store.Dispatch(state.SetAnswer{Answer: &kb.Answer{ID: "a1", AnswerText: "original text"}})
	e.Sync(store.State())

	e.SetText("updated text")
	result, err := e.Commit(context.Background())
	if err != nil {
		t.Fatalf("expected commit to succeed: %v", err)
	}

	if result.AnswerText != "updated text" {
		t.Fatalf("unexpected result %+v", result)
	}
	if e.Dirty() {
		t.Fatal("expected clean buffer after echoed commit")
	}

	st := store.State()
	if st.Answer.AnswerText != "updated text" || st.LoadingAnswer {
		t.Fatalf("expected stored answer updated, got %+v", st)
	}
}

func TestAnswerEditorHasNoCreatePath(t *testing.T) {
	store := state.NewStore(nil)
	remote := &fakeRemote{}
	e := editbuf.NewAnswerEditor(store, remote)

	e.Sync(store.State())
	e.SetText("unsolicited answer")

	if _, err := e.Commit(context.Background()); !errors.Is(err, editbuf.ErrNoAnswerSelected) {
		t.Fatalf("expected ErrNoAnswerSelected, got %v", err)
	}
	if remote.updateCalls != 0 {
		t.Fatal("expected no remote call without a selected answer")
	}
}
