// Package dialog implements the practice screen: dialog questions on
// the left, the rendered answer on the right, and a running context
// log fed by continuous voice capture.
package dialog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/cache"
	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
	"github.com/okozlov/quill/internal/voice"
	"github.com/okozlov/quill/utils"
)

type dialogKeyMap struct {
	selectItem  key.Binding
	toggleVoice key.Binding
	clearLog    key.Binding
	quit        key.Binding
}

func newDialogKeyMap() *dialogKeyMap {
	return &dialogKeyMap{
		selectItem: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "reveal answer"),
		),
		toggleVoice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "track context"),
		),
		clearLog: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear context"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

type questionItem struct {
	question kb.Question
}

func (i questionItem) Title() string       { return i.question.QuestionText }
func (i questionItem) Description() string { return "" }
func (i questionItem) FilterValue() string { return i.question.QuestionText }

// utterance is one transcribed chunk of the ongoing conversation. The
// log is append-only; entries are never rewritten.
type utterance struct {
	at   time.Time
	text string
}

type categoryLoadedMsg struct {
	category *kb.Category
}

type questionsLoadedMsg struct {
	questions []kb.Question
}

type answerLoadedMsg struct {
	questionID string
	answer     *kb.Answer
}

type transcriptMsg struct {
	text string
}

type errMsg struct {
	err error
}

type Model struct {
	store    *state.Store
	remote   *gateway.Client
	pipeline *voice.Pipeline
	log      *zap.Logger

	keys       *dialogKeyMap
	questions  list.Model
	answerView viewport.Model
	render     *cache.RenderCache
	contextLog []utterance

	width    int
	height   int
	tracking bool
	status   string
}

func NewModel(a *app.App) Model {
	questions := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	questions.Title = "Dialog"
	questions.Styles.Title = titleStyle
	questions.SetShowHelp(false)

	return Model{
		store:      a.Store,
		remote:     a.Remote,
		pipeline:   a.Voice,
		log:        a.Log.Named("dialog"),
		keys:       newDialogKeyMap(),
		questions:  questions,
		answerView: viewport.New(0, 0),
		render:     cache.New(32),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCategory(), m.awaitTranscript())
}

func (m Model) fetchCategory() tea.Cmd {
	return func() tea.Msg {
		category, err := m.remote.DialogCategory(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return categoryLoadedMsg{category: category}
	}
}

func (m Model) fetchQuestions(categoryID string) tea.Cmd {
	return func() tea.Msg {
		questions, err := m.remote.Questions(context.Background(), categoryID, "")
		if err != nil {
			return errMsg{err: err}
		}
		sort.Slice(questions, func(i, j int) bool {
			return questions[i].ID < questions[j].ID
		})
		return questionsLoadedMsg{questions: questions}
	}
}

func (m Model) fetchAnswer(questionID string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.remote.Answer(context.Background(), questionID)
		if err != nil {
			return errMsg{err: err}
		}
		return answerLoadedMsg{questionID: questionID, answer: answer}
	}
}

func (m Model) awaitTranscript() tea.Cmd {
	return func() tea.Msg {
		return transcriptMsg{text: <-m.pipeline.Transcripts()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.questions.SetSize(msg.Width/3-2, msg.Height-v-2)
		m.answerView.Width = msg.Width - msg.Width/3 - h - 4
		m.answerView.Height = (msg.Height - v - 2) / 2
		return m, nil

	case categoryLoadedMsg:
		m.store.Dispatch(state.SetCategory{Category: msg.category})
		return m, m.fetchQuestions(msg.category.ID)

	case questionsLoadedMsg:
		items := make([]list.Item, 0, len(msg.questions))
		for _, q := range msg.questions {
			items = append(items, questionItem{question: q})
		}
		return m, m.questions.SetItems(items)

	case answerLoadedMsg:
		if !m.store.ApplyAnswerFor(msg.questionID, msg.answer) {
			return m, nil
		}
		if msg.answer != nil {
			key := cache.Key(msg.answer.ID, m.answerView.Width)
			rendered, ok := m.render.Get(key)
			if !ok {
				rendered = utils.RenderMarkdown(msg.answer.AnswerText, m.answerView.Width)
				m.render.Put(key, rendered)
			}
			m.answerView.SetContent(rendered)
		} else {
			m.answerView.SetContent("")
		}
		return m, nil

	case transcriptMsg:
		m.contextLog = append(m.contextLog, utterance{at: time.Now(), text: msg.text})
		return m, m.awaitTranscript()

	case errMsg:
		m.log.Warn("dialog operation failed", zap.Error(msg.err))
		m.status = errorStyle.Render(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.pipeline.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.selectItem):
		item, ok := m.questions.SelectedItem().(questionItem)
		if !ok {
			return m, nil
		}
		q := item.question
		m.store.Dispatch(state.SetQuestion{Question: &q})
		m.answerView.SetContent("")
		return m, m.fetchAnswer(q.ID)

	case key.Matches(msg, m.keys.toggleVoice):
		return m.toggleTracking()

	case key.Matches(msg, m.keys.clearLog):
		// Starts a fresh log; past sessions are not editable.
		m.contextLog = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.questions, cmd = m.questions.Update(msg)
	return m, cmd
}

func (m *Model) toggleTracking() (tea.Model, tea.Cmd) {
	if m.tracking {
		m.pipeline.Stop()
		m.tracking = false
		m.status = statusStyle("context tracking stopped")
		return *m, nil
	}

	m.tracking = true
	m.status = recordingStyle.Render("tracking context")
	return *m, func() tea.Msg {
		if err := m.pipeline.Start(context.Background(), voice.Continuous); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) View() string {
	questions := paneStyle.Render(m.questions.View())

	answer := paneStyle.Render(
		titleStyle.Render("Answer") + "\n" + m.answerView.View(),
	)

	rows := []string{titleStyle.Render("Context")}
	if m.tracking {
		rows[0] += recordingStyle.Render(" ●")
	}
	for _, u := range m.contextLog {
		rows = append(rows, fmt.Sprintf("%s  %s", u.at.Format("15:04:05"), u.text))
	}
	contextPane := paneStyle.Render(strings.Join(rows, "\n"))

	right := lipgloss.JoinVertical(lipgloss.Left, answer, contextPane)
	layout := lipgloss.JoinHorizontal(lipgloss.Top, questions, right)

	footer := m.status
	if footer == "" {
		footer = helpStyle.Render("↵ reveal · ctrl+v track context · ctrl+l clear · q quit")
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, layout, footer))
}

func Run(a *app.App) error {
	if _, err := tea.NewProgram(NewModel(a), tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dialog session failed: %w", err)
	}
	return nil
}
