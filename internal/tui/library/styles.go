package library

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			MarginRight(1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334455"))

	focusedPaneStyle = paneStyle.Copy().
				BorderForeground(lipgloss.Color("#0AF"))

	statusBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	statusStyle = statusBannerStyle.Render

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55"))

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FA0")).
			Bold(true)

	recordingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))

	selectedTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0AF")).
				Bold(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCC"))
)
