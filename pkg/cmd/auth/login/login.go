package login

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/pkg/cmd/auth/tui"
)

func NewCmdLogin(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"l"},
		Short:   "Log in to your account",
		Long: heredoc.Doc(`
			Log in with your email and password. The session token is stored
			in the quill config file and attached to every request until it
			expires.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Cfg.HasValidSession(time.Now()) {
				fmt.Printf(
					"Already logged in as %s. Run 'quill auth logout' to switch accounts.\n",
					a.Cfg.UserEmail,
				)
				return nil
			}
			return tui.Login(a)
		},
	}

	return cmd
}
