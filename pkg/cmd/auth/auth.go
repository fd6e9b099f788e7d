package auth

import (
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/pkg/cmd/auth/login"
	"github.com/okozlov/quill/pkg/cmd/auth/logout"
	"github.com/okozlov/quill/pkg/cmd/auth/register"
)

func NewCmdAuth(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"a"},
		Short:   "Authenticate against the knowledge base server.",
	}

	cmd.AddCommand(register.NewCmdRegister(a))
	cmd.AddCommand(login.NewCmdLogin(a))
	cmd.AddCommand(logout.NewCmdLogout(a))

	return cmd
}
