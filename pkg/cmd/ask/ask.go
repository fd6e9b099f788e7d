package ask

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/utils"
)

func NewCmdAsk(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ask",
		Aliases: []string{"q"},
		Short:   "Look up an answer without opening the TUI.",
		Long: heredoc.Doc(`
			Fuzzy-find a question across all your categories and print its
			answer, rendered for the terminal. With --copy the plain text
			goes to the clipboard as well.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, a)
		},
	}

	cmd.Flags().BoolP("copy", "c", false, "Copy the plain-text answer to the clipboard")

	return cmd
}

func run(cmd *cobra.Command, a *app.App) error {
	ctx := cmd.Context()

	questions, err := collectQuestions(ctx, a)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions found")
	}

	idx, err := fuzzyfinder.Find(questions, func(i int) string {
		return questions[i].QuestionText
	}, fuzzyfinder.WithHeader("Pick a question"))
	if err != nil {
		return err
	}

	answer, err := a.Remote.Answer(ctx, questions[idx].ID)
	if err != nil {
		return fmt.Errorf("failed to fetch answer: %w", err)
	}
	if answer == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No answer recorded yet.")
		return nil
	}

	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), utils.RenderMarkdown(answer.AnswerText, width))

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		if err := clipboard.WriteAll(utils.PlainText(answer.AnswerText)); err != nil {
			return fmt.Errorf("failed to copy answer: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
	}

	return nil
}

func collectQuestions(ctx context.Context, a *app.App) ([]kb.Question, error) {
	email := ""
	if st := a.Store.State(); st.User != nil {
		email = st.User.Email
	}

	flat, err := a.Remote.CategoriesForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var questions []kb.Question
	for _, c := range flat {
		qs, err := a.Remote.Questions(ctx, c.ID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch questions for %s: %w", c.Name, err)
		}
		questions = append(questions, qs...)
	}

	return questions, nil
}
