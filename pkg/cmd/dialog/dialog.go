package dialog

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	dlgtui "github.com/okozlov/quill/internal/tui/dialog"
)

func NewCmdDialog(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dialog",
		Aliases: []string{"d"},
		Short:   "Practice dialog questions with voice context tracking.",
		Long: heredoc.Doc(`
			Open the practice screen for the dialog category. Select a
			question to reveal its answer, and toggle continuous voice
			capture to keep a transcript of the conversation alongside.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dlgtui.Run(a)
		},
	}

	return cmd
}
