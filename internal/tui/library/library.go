// Package library implements the main knowledge base screen: category
// tree, question list, question editor, rendered answer and tag panel.
package library

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/cache"
	"github.com/okozlov/quill/internal/editbuf"
	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
	"github.com/okozlov/quill/internal/voice"
	"github.com/okozlov/quill/utils"
)

type focusArea int

const (
	focusCategories focusArea = iota
	focusQuestions
	focusEditor
	focusAnswer
	focusTags
)

type altView int

const (
	altNone altView = iota
	altCreateCategory
	altTagFilter
)

type Model struct {
	store    *state.Store
	remote   *gateway.Client
	qedit    *editbuf.QuestionEditor
	aedit    *editbuf.AnswerEditor
	pipeline *voice.Pipeline
	log      *zap.Logger

	keys       *libraryKeyMap
	categories list.Model
	questions  list.Model
	editor     textarea.Model
	answerEdit textarea.Model
	answerView viewport.Model
	input      textinput.Model
	spin       spinner.Model

	render    *cache.RenderCache
	allTags   []kb.Tag
	draftTags []kb.Tag

	focus     focusArea
	alt       altView
	tagCursor int
	width     int
	height    int
	recording bool
	status    string
}

func NewModel(a *app.App) Model {
	keys := newLibraryKeyMap()

	categories := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	categories.Title = "Categories"
	categories.Styles.Title = titleStyle
	categories.SetShowHelp(false)

	questions := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	questions.Title = "Questions"
	questions.Styles.Title = titleStyle
	questions.SetShowHelp(false)

	editor := textarea.New()
	editor.Placeholder = "Question text"
	editor.ShowLineNumbers = false

	answerEdit := textarea.New()
	answerEdit.Placeholder = "Answer text"
	answerEdit.ShowLineNumbers = false

	input := textinput.New()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		store:      a.Store,
		remote:     a.Remote,
		qedit:      editbuf.NewQuestionEditor(a.Store, a.Remote),
		aedit:      editbuf.NewAnswerEditor(a.Store, a.Remote),
		pipeline:   a.Voice,
		log:        a.Log.Named("library"),
		keys:       keys,
		categories: categories,
		questions:  questions,
		editor:     editor,
		answerEdit: answerEdit,
		answerView: viewport.New(0, 0),
		input:      input,
		spin:       sp,
		render:     cache.New(64),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCategories(),
		m.fetchTags(),
		m.spin.Tick,
		m.awaitTranscript(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case categoriesLoadedMsg:
		return m, m.categories.SetItems(categoryItems(msg.roots))

	case questionsLoadedMsg:
		// A category change may have raced this fetch.
		if st := m.store.State(); st.Category == nil || st.Category.ID != msg.categoryID {
			return m, nil
		}
		m.questions.ResetSelected()
		return m, m.questions.SetItems(questionItems(msg.questions))

	case answerLoadedMsg:
		if !m.store.ApplyAnswerFor(msg.questionID, msg.answer) {
			return m, nil
		}
		m.syncEditors()
		m.renderAnswer()
		return m, nil

	case tagsLoadedMsg:
		m.allTags = msg.tags
		return m, nil

	case questionCommittedMsg:
		m.status = statusStyle("question saved")
		m.syncEditors()
		m.renderAnswer()
		return m, m.fetchQuestions()

	case answerCommittedMsg:
		m.status = statusStyle("answer saved")
		m.render.InvalidateAnswer(msg.answer.ID)
		m.syncEditors()
		m.renderAnswer()
		return m, nil

	case tagsSavedMsg:
		m.status = statusStyle("tags saved")
		// Rebaseline the selection on the echoed question so the next
		// save compares drafts against the tags actually stored.
		if msg.result != nil && msg.result.Question != nil {
			m.store.Dispatch(state.SetQuestion{Question: msg.result.Question})
			m.store.Dispatch(state.SetLoadingAnswer{Loading: false})
			m.syncEditors()
		}
		return m, m.fetchQuestions()

	case categoryCreatedMsg:
		m.status = statusStyle(fmt.Sprintf("category %q created", msg.category.Name))
		return m, m.fetchCategories()

	case transcriptMsg:
		m.recording = false
		m.qedit.SetText(msg.text)
		m.editor.SetValue(msg.text)
		m.status = statusStyle("transcript received")
		return m, m.awaitTranscript()

	case errMsg:
		m.log.Warn("operation failed", zap.String("scope", msg.scope), zap.Error(msg.err))
		m.status = errorStyle.Render(fmt.Sprintf("%s: %v", msg.scope, msg.err))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.pipeline.Stop()
		return m, tea.Quit
	}

	if m.alt != altNone {
		return m.handleAltUpdate(msg)
	}

	switch {
	case key.Matches(msg, m.keys.cycleFocus):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, m.keys.toggleVoice):
		return m.toggleVoice()

	case key.Matches(msg, m.keys.toggleEdit):
		editMode := !m.store.State().Filters.EditMode
		m.store.Dispatch(state.SetFilters{EditMode: &editMode})
		m.syncEditors()
		m.answerEdit.SetValue(m.aedit.Text())
		return m, nil
	}

	switch m.focus {
	case focusCategories:
		return m.handleCategoriesKey(msg)
	case focusQuestions:
		return m.handleQuestionsKey(msg)
	case focusEditor:
		return m.handleEditorKey(msg)
	case focusAnswer:
		return m.handleAnswerKey(msg)
	case focusTags:
		return m.handleTagsKey(msg)
	}

	return m, nil
}

func (m Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.categories.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.categories, cmd = m.categories.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.selectItem):
		item, ok := m.categories.SelectedItem().(categoryItem)
		if !ok {
			return m, nil
		}
		m.store.Dispatch(state.SetCategory{Category: item.category})
		m.syncEditors()
		m.renderAnswer()
		m.draftTags = nil
		return m, m.fetchQuestions()

	case key.Matches(msg, m.keys.createCategory):
		if !m.store.State().Filters.EditMode {
			m.status = statusStyle("enable edit mode (ctrl+e) to create categories")
			return m, nil
		}
		m.alt = altCreateCategory
		m.input.SetValue("")
		m.input.Placeholder = "New category name"
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.categories, cmd = m.categories.Update(msg)
	return m, cmd
}

func (m Model) handleQuestionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.questions.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.questions, cmd = m.questions.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.selectItem):
		item, ok := m.questions.SelectedItem().(questionItem)
		if !ok {
			return m, nil
		}
		q := item.question
		m.store.Dispatch(state.SetQuestion{Question: &q})
		m.syncEditors()
		m.editor.SetValue(m.qedit.Text())
		m.draftTags = append([]kb.Tag(nil), q.Tags...)
		m.tagCursor = 0
		m.answerView.SetContent("")
		return m, m.fetchAnswer(q.ID)

	case key.Matches(msg, m.keys.tagFilter):
		m.alt = altTagFilter
		m.input.SetValue(m.store.State().Filters.TagFilter)
		m.input.Placeholder = "Tag filter"
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.questions, cmd = m.questions.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.commit):
		if !m.qedit.CanCommit() {
			m.status = statusStyle("nothing to commit")
			return m, nil
		}
		return m, m.commitQuestion()

	case key.Matches(msg, m.keys.revert):
		if err := m.qedit.Revert(); err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.editor.SetValue(m.qedit.Text())
		return m, nil

	case key.Matches(msg, m.keys.newQuestion):
		if err := m.qedit.New(); err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.syncEditors()
		m.editor.SetValue("")
		m.answerView.SetContent("")
		m.draftTags = nil
		return m, nil

	case key.Matches(msg, m.keys.cycleType):
		qt := m.qedit.CycleQuestionType()
		m.status = statusStyle(fmt.Sprintf("type: %s", qt))
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.qedit.SetText(m.editor.Value())
	return m, cmd
}

func (m Model) handleAnswerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.yankAnswer) {
		st := m.store.State()
		if st.Answer == nil {
			m.status = statusStyle("no answer to yank")
			return m, nil
		}
		if err := clipboard.WriteAll(utils.PlainText(st.Answer.AnswerText)); err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("clipboard: %v", err))
			return m, nil
		}
		m.status = statusStyle("answer yanked")
		return m, nil
	}

	if m.store.State().Filters.EditMode {
		switch {
		case key.Matches(msg, m.keys.commit):
			if !m.aedit.CanCommit() {
				m.status = statusStyle("nothing to commit")
				return m, nil
			}
			return m, m.commitAnswer()

		case key.Matches(msg, m.keys.revert):
			if err := m.aedit.Revert(); err != nil {
				m.status = errorStyle.Render(err.Error())
				return m, nil
			}
			m.answerEdit.SetValue(m.aedit.Text())
			return m, nil
		}

		var cmd tea.Cmd
		m.answerEdit, cmd = m.answerEdit.Update(msg)
		m.aedit.SetText(m.answerEdit.Value())
		return m, cmd
	}

	var cmd tea.Cmd
	m.answerView, cmd = m.answerView.Update(msg)
	return m, cmd
}

func (m Model) handleTagsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.toggleTag):
		if m.tagCursor < len(m.allTags) {
			m.draftTags = kb.ToggleTag(m.draftTags, m.allTags[m.tagCursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.saveTags):
		st := m.store.State()
		if st.Question == nil {
			m.status = statusStyle("no question selected")
			return m, nil
		}
		if kb.SameTagSet(m.draftTags, st.Question.Tags) {
			m.status = statusStyle("tags unchanged")
			return m, nil
		}
		return m, m.saveTags(st.Question.ID, m.draftTags)
	}

	switch msg.String() {
	case "up", "k":
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case "down", "j":
		if m.tagCursor < len(m.allTags)-1 {
			m.tagCursor++
		}
	}
	return m, nil
}

func (m Model) handleAltUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.exitAltView) {
		m.alt = altNone
		m.input.Blur()
		return m, nil
	}

	if key.Matches(msg, m.keys.submitAltView) {
		value := strings.TrimSpace(m.input.Value())
		alt := m.alt
		m.alt = altNone
		m.input.Blur()

		switch alt {
		case altCreateCategory:
			if value == "" {
				return m, nil
			}
			parentID := ""
			if item, ok := m.categories.SelectedItem().(categoryItem); ok {
				parentID = item.category.ID
			}
			return m, m.createCategory(value, parentID)

		case altTagFilter:
			m.store.Dispatch(state.SetFilters{TagFilter: &value})
			m.store.Dispatch(state.ApplyFilters{TagFilter: value})
			return m, m.fetchQuestions()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) toggleVoice() (tea.Model, tea.Cmd) {
	if m.recording {
		m.pipeline.Stop()
		m.status = statusStyle("transcribing...")
		return *m, nil
	}
	m.recording = true
	m.status = recordingStyle.Render("recording")
	return *m, m.startVoice()
}

func (m *Model) cycleFocus() {
	m.focus++
	if m.focus > focusTags {
		m.focus = focusCategories
	}
	if m.focus == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
	if m.focus == focusAnswer && m.store.State().Filters.EditMode {
		m.answerEdit.Focus()
	} else {
		m.answerEdit.Blur()
	}
}

// syncEditors rebinds both edit buffers to the current selection.
func (m *Model) syncEditors() {
	st := m.store.State()
	m.qedit.Sync(st)
	m.aedit.Sync(st)
}

func (m *Model) renderAnswer() {
	st := m.store.State()
	if st.Answer == nil {
		m.answerView.SetContent("")
		m.answerEdit.SetValue("")
		return
	}

	cacheKey := cache.Key(st.Answer.ID, m.answerView.Width)
	rendered, ok := m.render.Get(cacheKey)
	if !ok {
		rendered = utils.RenderMarkdown(st.Answer.AnswerText, m.answerView.Width)
		m.render.Put(cacheKey, rendered)
	}
	m.answerView.SetContent(rendered)
	m.answerEdit.SetValue(m.aedit.Text())
}

func (m *Model) layout() {
	h, v := appStyle.GetFrameSize()
	width := m.width - h
	height := m.height - v - 3

	colW := width / 3
	m.categories.SetSize(colW-2, height)
	m.questions.SetSize(colW-2, height)

	rightW := width - 2*colW - 4
	m.editor.SetWidth(rightW)
	m.editor.SetHeight(height / 3)
	m.answerEdit.SetWidth(rightW)
	m.answerEdit.SetHeight(height / 2)
	m.answerView.Width = rightW
	m.answerView.Height = height / 2
}

func (m Model) View() string {
	if m.alt != altNone {
		title := "Create category"
		if m.alt == altTagFilter {
			title = "Filter by tag"
		}
		prompt := fmt.Sprintf("%s\n\n%s\n\n%s",
			titleStyle.Render(title),
			m.input.View(),
			helpStyle.Render("enter submit, esc cancel"),
		)
		return appStyle.Render(prompt)
	}

	categories := m.paneFor(focusCategories).Render(m.categories.View())
	questions := m.paneFor(focusQuestions).Render(m.questions.View())
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.editorPane(),
		m.answerPane(),
		m.tagsPane(),
	)

	layout := lipgloss.JoinHorizontal(lipgloss.Top, categories, questions, right)
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, layout, m.statusLine()))
}

func (m Model) editorPane() string {
	header := titleStyle.Render("Question")
	if m.qedit.Dirty() {
		header += dirtyStyle.Render(" *")
	}
	header += helpStyle.Render("  " + string(m.qedit.QuestionType()))
	return m.paneFor(focusEditor).Render(header + "\n" + m.editor.View())
}

func (m Model) answerPane() string {
	st := m.store.State()
	header := titleStyle.Render("Answer")
	if st.Filters.EditMode {
		header += helpStyle.Render("  edit")
		if m.aedit.Dirty() {
			header += dirtyStyle.Render(" *")
		}
		return m.paneFor(focusAnswer).Render(header + "\n" + m.answerEdit.View())
	}

	body := m.answerView.View()
	if st.LoadingAnswer {
		body = m.spin.View() + " loading answer"
	}
	return m.paneFor(focusAnswer).Render(header + "\n" + body)
}

func (m Model) tagsPane() string {
	header := titleStyle.Render("Tags")
	rows := make([]string, 0, len(m.allTags)+1)
	rows = append(rows, header)
	for i, t := range m.allTags {
		cursor := "  "
		if m.focus == focusTags && i == m.tagCursor {
			cursor = "> "
		}
		style := tagStyle
		mark := "[ ]"
		if tagSelected(m.draftTags, t) {
			style = selectedTagStyle
			mark = "[x]"
		}
		rows = append(rows, cursor+style.Render(mark+" "+t.Name))
	}
	return m.paneFor(focusTags).Render(strings.Join(rows, "\n"))
}

func tagSelected(tags []kb.Tag, t kb.Tag) bool {
	for _, have := range tags {
		if have.ID == t.ID {
			return true
		}
	}
	return false
}

func (m Model) statusLine() string {
	parts := []string{m.status}
	if m.recording {
		parts = append(parts, recordingStyle.Render("● rec"))
	} else if m.pipeline.State() == voice.Uploading {
		parts = append(parts, statusStyle("uploading"))
	}
	parts = append(parts, helpStyle.Render(
		"tab focus · ctrl+s commit · ctrl+r revert · ctrl+n new · ctrl+t type · ctrl+v voice · ctrl+e edit · Y yank",
	))
	return strings.Join(parts, "  ")
}

func (m Model) paneFor(area focusArea) lipgloss.Style {
	if m.focus == area {
		return focusedPaneStyle
	}
	return paneStyle
}

func Run(a *app.App) error {
	m := NewModel(a)

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			os.Exit(0)
		} else {
			log.Fatalf("Error running program: %v", err)
		}
	}

	return nil
}
