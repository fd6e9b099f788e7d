package library

import "github.com/charmbracelet/bubbles/key"

type libraryKeyMap struct {
	cycleFocus     key.Binding
	selectItem     key.Binding
	commit         key.Binding
	revert         key.Binding
	newQuestion    key.Binding
	cycleType      key.Binding
	toggleVoice    key.Binding
	toggleEdit     key.Binding
	createCategory key.Binding
	saveTags       key.Binding
	toggleTag      key.Binding
	tagFilter      key.Binding
	yankAnswer     key.Binding
	submitAltView  key.Binding
	exitAltView    key.Binding
	quit           key.Binding
}

func newLibraryKeyMap() *libraryKeyMap {
	return &libraryKeyMap{
		cycleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		selectItem: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		commit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "commit"),
		),
		revert: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "revert"),
		),
		newQuestion: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new question"),
		),
		cycleType: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "question type"),
		),
		toggleVoice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "voice"),
		),
		toggleEdit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit mode"),
		),
		createCategory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "create category"),
		),
		saveTags: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save tags"),
		),
		toggleTag: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle tag"),
		),
		tagFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "tag filter"),
		),
		yankAnswer: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank answer"),
		),
		submitAltView: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		exitAltView: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
