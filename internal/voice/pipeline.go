package voice

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of the capture pipeline.
type State int

const (
	Idle State = iota
	Recording
	Uploading
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Uploading:
		return "uploading"
	default:
		return "idle"
	}
}

// Mode selects the pipeline's consumer contract.
type Mode int

const (
	// SingleShot uploads one blob on stop; the transcript overwrites
	// the active question buffer.
	SingleShot Mode = iota
	// Continuous uploads a chunk every interval without stopping
	// capture; transcripts append to the context log.
	Continuous
)

// DefaultChunkInterval matches the 10-second cadence of context
// tracking.
const DefaultChunkInterval = 10 * time.Second

var ErrAlreadyRecording = errors.New("capture already in progress")

// Pipeline drives one capture session at a time: acquire microphone,
// buffer audio, upload blobs, emit transcripts. Upload failures are
// logged and never stop an ongoing capture.
type Pipeline struct {
	rec      Recorder
	tr       *Transcriber
	log      *zap.Logger
	Interval time.Duration

	mu      sync.Mutex
	state   State
	session string
	cancel  context.CancelFunc
	stream  io.ReadCloser
	pending []byte
	done    chan struct{}

	transcripts chan string
}

func NewPipeline(rec Recorder, tr *Transcriber, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		rec:         rec,
		tr:          tr,
		log:         log,
		Interval:    DefaultChunkInterval,
		transcripts: make(chan string, 8),
	}
}

// Transcripts delivers each finished transcript, first candidate only.
func (p *Pipeline) Transcripts() <-chan string {
	return p.transcripts
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start acquires the microphone and begins capturing. A microphone
// failure returns the pipeline to Idle and reports the error; it never
// panics the caller.
func (p *Pipeline) Start(ctx context.Context, mode Mode) error {
	p.mu.Lock()
	if p.state != Idle {
		p.mu.Unlock()
		return ErrAlreadyRecording
	}
	p.state = Recording
	p.session = uuid.NewString()
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)

	stream, err := p.rec.Record(ctx)
	if err != nil {
		cancel()
		p.mu.Lock()
		p.state = Idle
		p.mu.Unlock()
		p.log.Warn("microphone acquisition failed", zap.Error(err))
		return err
	}

	p.mu.Lock()
	p.cancel = cancel
	p.stream = stream
	p.pending = nil
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.log.Info("capture started",
		zap.String("session", p.session),
		zap.Bool("continuous", mode == Continuous),
	)

	go p.run(ctx, mode, stream)
	return nil
}

// Stop ends the capture session. In single-shot mode the accumulated
// blob is uploaded after the stream drains.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	stream := p.stream
	p.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the session goroutine has fully wound down. Used by
// one-shot CLI consumers; the TUI just watches the transcript channel.
func (p *Pipeline) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (p *Pipeline) run(ctx context.Context, mode Mode, stream io.ReadCloser) {
	defer func() {
		stream.Close()

		p.mu.Lock()
		p.state = Idle
		p.cancel = nil
		p.stream = nil
		session := p.session
		done := p.done
		p.done = nil
		p.mu.Unlock()

		p.log.Info("capture stopped", zap.String("session", session))
		close(done)
	}()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		buf := make([]byte, 4096)
		for {
			n, err := stream.Read(buf)
			if n > 0 {
				p.mu.Lock()
				p.pending = append(p.pending, buf[:n]...)
				p.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	if mode == Continuous {
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if chunk := p.takeChunk(); len(chunk) > 0 {
					p.upload(ctx, chunk)
				}
			case <-readDone:
				// Flush whatever the last partial interval captured.
				if chunk := p.takeChunk(); len(chunk) > 0 {
					p.upload(context.WithoutCancel(ctx), chunk)
				}
				return
			}
		}
	}

	<-readDone
	if blob := p.takeChunk(); len(blob) > 0 {
		p.upload(context.WithoutCancel(ctx), blob)
	}
}

func (p *Pipeline) takeChunk() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	chunk := p.pending
	p.pending = nil
	return chunk
}

// upload ships one blob and emits the first candidate. Failures are
// logged and swallowed: continuous capture keeps going and single-shot
// mode leaves the target buffer unchanged.
func (p *Pipeline) upload(ctx context.Context, blob []byte) {
	p.setState(Uploading)
	defer p.setState(Recording)

	candidates, err := p.tr.Transcribe(ctx, blob)
	if err != nil {
		p.log.Warn("transcription failed",
			zap.String("session", p.session),
			zap.Int("blob_bytes", len(blob)),
			zap.Error(err),
		)
		return
	}

	select {
	case p.transcripts <- candidates[0]:
	default:
		p.log.Warn("transcript dropped: consumer not draining",
			zap.String("session", p.session),
		)
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		p.state = s
	}
}
