package logout

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
)

func NewCmdLogout(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of your account",
		Long: heredoc.Doc(`
			Discard the stored session token. Public categories stay
			readable; personal categories require logging in again.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Cfg.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Successfully logged out.")
			return nil
		},
	}

	return cmd
}
