package dictate

import (
	"bufio"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/okozlov/quill/internal/app"
	"github.com/okozlov/quill/internal/voice"
)

func NewCmdDictate(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dictate",
		Aliases: []string{"say"},
		Short:   "Record one utterance and print the transcript.",
		Long: heredoc.Doc(`
			Start recording from the microphone, stop on Enter, and print
			the transcription. Useful for checking the voice setup before
			relying on it inside the TUI.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, a)
		},
	}

	return cmd
}

func run(cmd *cobra.Command, a *app.App) error {
	if err := a.Voice.Start(cmd.Context(), voice.SingleShot); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Recording... press Enter to stop.")
	reader := bufio.NewReader(cmd.InOrStdin())
	reader.ReadString('\n')

	a.Voice.Stop()
	a.Voice.Wait()

	select {
	case transcript := <-a.Voice.Transcripts():
		fmt.Fprintln(cmd.OutOrStdout(), transcript)
	case <-time.After(2 * time.Second):
		return fmt.Errorf("no transcript received, check the transcription server")
	}

	return nil
}
