package root

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/pkg/cmd/ask"
	"github.com/okozlov/quill/pkg/cmd/auth"
	"github.com/okozlov/quill/pkg/cmd/categories"
	"github.com/okozlov/quill/pkg/cmd/dialog"
	"github.com/okozlov/quill/pkg/cmd/dictate"
	"github.com/okozlov/quill/pkg/cmd/lang"
	"github.com/okozlov/quill/pkg/cmd/library"
	"github.com/okozlov/quill/pkg/cmd/new"
)

var serverURL string

func NewCmdRoot(a *app.App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "quill",
		Aliases: []string{"ql"},
		Short:   "A terminal client for your interview question library.",
		Long: `Browse categories, edit questions and answers, and practice
  dialogs from the terminal. Answers live on the server; quill only
  holds what you are currently editing.

  quill              open the library
  quill dialog       practice dialog questions
  quill new "text"   add a question from the command line
  `,
		// The library screen is the default entry point.
		RunE: library.NewCmdLibrary(a).RunE,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if serverURL != "" {
				a.Cfg.ServerURL = serverURL
				a.Remote.SetEndpoint(serverURL)
			}
		},
	}

	cmd.PersistentFlags().
		StringVar(
			&serverURL,
			"server",
			"",
			"Override the GraphQL endpoint for this invocation.",
		)
	viper.BindPFlag("serverurl", cmd.PersistentFlags().Lookup("server"))

	cmd.AddCommand(
		library.NewCmdLibrary(a),
		dialog.NewCmdDialog(a),
		auth.NewCmdAuth(a),
		categories.NewCmdCategories(a),
		new.NewCmdNew(a),
		ask.NewCmdAsk(a),
		dictate.NewCmdDictate(a),
		lang.NewCmdLang(a),
	)

	return cmd, nil
}
