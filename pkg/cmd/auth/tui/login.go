package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
	"github.com/okozlov/quill/utils"
)

func Login(a *app.App) error {
	if _, err := tea.NewProgram(initialLoginModel(a)).Run(); err != nil {
		return err
	}

	return nil
}

type LoginModel struct {
	focusIndex int
	inputs     []textinput.Model
	app        *app.App
}

func initialLoginModel(a *app.App) LoginModel {
	m := LoginModel{
		inputs: make([]textinput.Model, 2),
		app:    a,
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Cursor.Style = cursorStyle
		t.CharLimit = 64

		switch i {
		case 0:
			t.Placeholder = "Email"
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		case 1:
			t.Placeholder = "Password"
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}

		m.inputs[i] = t
	}

	return m
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				if err := m.submit(); err != nil {
					fmt.Printf("failed to log in: %v\n", err)
				} else {
					fmt.Println("Login successful!")
				}
				return m, tea.Quit
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i <= len(m.inputs)-1; i++ {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].PromptStyle = noStyle
				m.inputs[i].TextStyle = noStyle
			}

			return m, tea.Batch(cmds...)
		}
	}

	cmd := m.updateInputs(msg)

	return m, cmd
}

func (m LoginModel) submit() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := m.app.Remote.Login(ctx, m.inputs[0].Value(), m.inputs[1].Value())
	if err != nil {
		return err
	}

	return saveSession(m.app, session)
}

// saveSession persists the token and seeds the store so the TUIs see a
// logged-in user without re-reading the config.
func saveSession(a *app.App, session *gateway.Session) error {
	expiry := time.Time{}
	if claims, err := utils.ParseTokenClaims(session.Token); err == nil {
		expiry = claims.Expiry
	}

	if err := a.Cfg.ChangeToken(session.Token, expiry, session.User.Email); err != nil {
		return err
	}

	a.Store.Dispatch(state.SetUser{User: &kb.User{
		ID:    session.User.ID,
		Email: session.User.Email,
		Name:  session.User.Name,
	}})
	return nil
}

func (m *LoginModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))

	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return tea.Batch(cmds...)
}

func (m LoginModel) View() string {
	var b strings.Builder

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		if i < len(m.inputs)-1 {
			b.WriteRune('\n')
		}
	}

	button := &blurredButton
	if m.focusIndex == len(m.inputs) {
		button = &focusedButton
	}
	fmt.Fprintf(&b, "\n\n%s\n\n", *button)

	return b.String()
}
