package new

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/kb"
)

func NewCmdNew(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new [question text]",
		Aliases: []string{"n"},
		Short:   "Add a question from the command line.",
		Long: heredoc.Doc(`
			Create a question without opening the TUI. The category is
			picked with a fuzzy finder and the question type with a
			selection prompt.

			  quill new "What does the race detector catch?"
			  quill new --paste
		`),
		Example: `quill new "Explain how channel select chooses a case"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, a)
		},
	}

	cmd.Flags().BoolP("paste", "p", false, "Take the question text from the clipboard")
	cmd.Flags().StringP("type", "t", "", "Question type: topic, dialog or algorithm")

	return cmd
}

func run(cmd *cobra.Command, args []string, a *app.App) error {
	text := strings.TrimSpace(strings.Join(args, " "))

	paste, _ := cmd.Flags().GetBool("paste")
	if paste {
		clip, err := clipboard.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read clipboard: %w", err)
		}
		text = strings.TrimSpace(clip)
	}

	if text == "" {
		return fmt.Errorf("no question text given, pass it as an argument or use --paste")
	}

	category, err := pickCategory(cmd.Context(), a)
	if err != nil {
		return err
	}

	qt, err := pickQuestionType(cmd)
	if err != nil {
		return err
	}

	result, err := a.Remote.CreateQuestion(cmd.Context(), text, category.ID, qt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created question %s in %s\n", result.Question.ID, category.Name)
	return nil
}

func pickCategory(ctx context.Context, a *app.App) (*kb.Category, error) {
	email := ""
	if st := a.Store.State(); st.User != nil {
		email = st.User.Email
	}

	flat, err := a.Remote.CategoriesForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("no categories available")
	}

	idx, err := fuzzyfinder.Find(flat, func(i int) string {
		return flat[i].Name
	}, fuzzyfinder.WithHeader("Pick a category"))
	if err != nil {
		return nil, err
	}

	return &flat[idx], nil
}

func pickQuestionType(cmd *cobra.Command) (kb.QuestionType, error) {
	flag, _ := cmd.Flags().GetString("type")
	switch flag {
	case "topic":
		return kb.QuestionWithTopic, nil
	case "dialog":
		return kb.ShortDialog, nil
	case "algorithm":
		return kb.AlgorithmTask, nil
	case "":
	default:
		return "", fmt.Errorf("unknown question type %q", flag)
	}

	choices := make([]string, 0, len(kb.QuestionTypes()))
	for _, qt := range kb.QuestionTypes() {
		choices = append(choices, string(qt))
	}

	sel := selection.New("Question type", choices)
	sel.Filter = nil

	choice, err := sel.RunPrompt()
	if err != nil {
		return "", err
	}

	return kb.QuestionType(choice), nil
}
