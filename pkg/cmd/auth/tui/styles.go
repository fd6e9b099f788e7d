package tui

import "github.com/charmbracelet/lipgloss"

var (
	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))
	noStyle     = lipgloss.NewStyle()
	cursorStyle = focusedStyle.Copy()

	focusedButton = focusedStyle.Copy().Render("[ Submit ]")
	blurredButton = noStyle.Copy().
			Foreground(lipgloss.Color("#777")).
			Render("[ Submit ]")
)
