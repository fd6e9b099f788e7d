package lang

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
)

func NewCmdLang(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or change the transcription language.",
		Long: heredoc.Doc(`
			With no argument, print the configured transcription language.
			With a two-letter code, persist it for future voice sessions.

			  quill lang
			  quill lang en
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.Cfg.Language)
				return nil
			}

			if err := a.Cfg.ChangeLanguage(args[0]); err != nil {
				return fmt.Errorf("failed to change language: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transcription language set to %s.\n", args[0])
			return nil
		},
	}

	return cmd
}
