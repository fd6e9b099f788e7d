package library

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/voice"
)

type categoriesLoadedMsg struct {
	roots []*kb.Category
}

// questionsLoadedMsg carries the selection that produced it so a result
// for a superseded category can be recognized and dropped.
type questionsLoadedMsg struct {
	categoryID string
	questions  []kb.Question
}

// answerLoadedMsg carries the originating question for the staleness
// gate.
type answerLoadedMsg struct {
	questionID string
	answer     *kb.Answer
}

type tagsLoadedMsg struct {
	tags []kb.Tag
}

type questionCommittedMsg struct {
	result *gateway.QuestionMutation
}

type answerCommittedMsg struct {
	answer *kb.Answer
}

type tagsSavedMsg struct {
	result *gateway.QuestionMutation
}

type categoryCreatedMsg struct {
	category *kb.Category
}

type transcriptMsg struct {
	text string
}

// errMsg scopes a failure to the pane that should display it.
type errMsg struct {
	scope string
	err   error
}

func (m Model) fetchCategories() tea.Cmd {
	email := ""
	if st := m.store.State(); st.User != nil {
		email = st.User.Email
	}

	return func() tea.Msg {
		flat, err := m.remote.CategoriesForUser(context.Background(), email)
		if err != nil {
			return errMsg{scope: "categories", err: err}
		}
		return categoriesLoadedMsg{roots: kb.BuildCategoryTree(flat)}
	}
}

func (m Model) fetchQuestions() tea.Cmd {
	st := m.store.State()
	if st.Category == nil {
		return nil
	}
	categoryID := st.Category.ID
	tagFilter := st.Filters.TagFilter

	return func() tea.Msg {
		questions, err := m.remote.Questions(context.Background(), categoryID, tagFilter)
		if err != nil {
			return errMsg{scope: "questions", err: err}
		}
		sort.Slice(questions, func(i, j int) bool {
			return questions[i].ID < questions[j].ID
		})
		return questionsLoadedMsg{categoryID: categoryID, questions: questions}
	}
}

func (m Model) fetchAnswer(questionID string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.remote.Answer(context.Background(), questionID)
		if err != nil {
			return errMsg{scope: "answer", err: err}
		}
		return answerLoadedMsg{questionID: questionID, answer: answer}
	}
}

func (m Model) fetchTags() tea.Cmd {
	return func() tea.Msg {
		tags, err := m.remote.Tags(context.Background())
		if err != nil {
			return errMsg{scope: "tags", err: err}
		}
		return tagsLoadedMsg{tags: tags}
	}
}

func (m Model) commitQuestion() tea.Cmd {
	return func() tea.Msg {
		result, err := m.qedit.Commit(context.Background())
		if err != nil {
			return errMsg{scope: "question", err: err}
		}
		return questionCommittedMsg{result: result}
	}
}

func (m Model) commitAnswer() tea.Cmd {
	return func() tea.Msg {
		answer, err := m.aedit.Commit(context.Background())
		if err != nil {
			return errMsg{scope: "answer", err: err}
		}
		return answerCommittedMsg{answer: answer}
	}
}

func (m Model) saveTags(questionID string, tags []kb.Tag) tea.Cmd {
	return func() tea.Msg {
		result, err := m.remote.UpdateQuestionTags(context.Background(), questionID, tags)
		if err != nil {
			return errMsg{scope: "tags", err: err}
		}
		return tagsSavedMsg{result: result}
	}
}

func (m Model) createCategory(name, parentID string) tea.Cmd {
	userID := ""
	if st := m.store.State(); st.User != nil {
		userID = st.User.ID
	}

	return func() tea.Msg {
		category, err := m.remote.CreateCategory(context.Background(), name, userID, parentID)
		if err != nil {
			return errMsg{scope: "categories", err: err}
		}
		return categoryCreatedMsg{category: category}
	}
}

// awaitTranscript blocks on the pipeline's transcript channel. Issued
// once at Init and re-issued after each delivery, so there is always
// exactly one waiter across capture sessions.
func (m Model) awaitTranscript() tea.Cmd {
	return func() tea.Msg {
		return transcriptMsg{text: <-m.pipeline.Transcripts()}
	}
}

func (m Model) startVoice() tea.Cmd {
	return func() tea.Msg {
		if err := m.pipeline.Start(context.Background(), voice.SingleShot); err != nil {
			return errMsg{scope: "voice", err: err}
		}
		return nil
	}
}
