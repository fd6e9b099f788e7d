package library

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	libtui "github.com/okozlov/quill/internal/tui/library"
)

func NewCmdLibrary(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib", "l"},
		Short:   "Browse and edit the question library.",
		Long: heredoc.Doc(`
			Open the library screen: the category tree, the questions in the
			selected category, the question editor and the rendered answer.
			Requires a logged-in session for your personal categories.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return libtui.Run(a)
		},
	}

	return cmd
}
