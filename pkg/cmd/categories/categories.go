package categories

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/kb"
)

func NewCmdCategories(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Print the category tree.",
		Long: heredoc.Doc(`
			Print your categories as an indented tree, children under
			parents. Public categories are included when not logged in.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if st := a.Store.State(); st.User != nil {
				email = st.User.Email
			}

			flat, err := a.Remote.CategoriesForUser(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("failed to fetch categories: %w", err)
			}

			roots := kb.BuildCategoryTree(flat)
			kb.FlattenTree(roots, func(c *kb.Category, depth int) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", depth), c.Name)
			})
			return nil
		},
	}

	return cmd
}
