// Package voice captures microphone audio, ships it to the
// transcription service and hands transcripts to whichever buffer is
// listening. Two consumers exist: single-shot capture overwrites the
// question buffer, continuous capture appends to the context log.
package voice

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Recorder produces a stream of encoded audio. Closing the stream
// releases the microphone; every exit path must close it.
type Recorder interface {
	Record(ctx context.Context) (io.ReadCloser, error)
}

// ExecRecorder shells out to an encoder reading the default capture
// device. The default invocation uses ffmpeg's ALSA input producing ogg
// on stdout.
type ExecRecorder struct {
	Command string
	Args    []string
}

func NewExecRecorder() *ExecRecorder {
	return &ExecRecorder{
		Command: "ffmpeg",
		Args: []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "alsa", "-i", "default",
			"-ac", "1", "-ar", "16000",
			"-f", "ogg", "-",
		},
	}
}

func (r *ExecRecorder) Record(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to acquire microphone: %w", err)
	}

	return &processStream{reader: stdout, cmd: cmd}, nil
}

type processStream struct {
	reader io.ReadCloser
	cmd    *exec.Cmd
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

// Close stops the capture process and reaps it. The interrupt lets the
// encoder flush its container trailer before exiting.
func (s *processStream) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Signal(syscall.SIGINT)
	}
	s.reader.Close()
	s.cmd.Wait()
	return nil
}
