package register

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/pkg/cmd/auth/tui"
)

func NewCmdRegister(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"r"},
		Short:   "Create a new account",
		Long: heredoc.Doc(`
			Create an account on the knowledge base server. On success you
			are logged in immediately.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Cfg.HasValidSession(time.Now()) {
				fmt.Printf(
					"Already logged in as %s. Run 'quill auth logout' first.\n",
					a.Cfg.UserEmail,
				)
				return nil
			}
			return tui.Register(a)
		},
	}

	return cmd
}
