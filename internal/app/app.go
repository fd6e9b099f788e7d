// Package app wires the shared runtime pieces every command needs:
// config, the state store, the GraphQL gateway and the voice pipeline.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/okozlov/quill/internal/config"
	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
	"github.com/okozlov/quill/internal/state"
	"github.com/okozlov/quill/internal/voice"
)

type App struct {
	Cfg    *config.Config
	Store  *state.Store
	Remote *gateway.Client
	Voice  *voice.Pipeline
	Log    *zap.Logger
}

func New(home string) (*App, error) {
	cfg, err := config.Load(home)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store := state.NewStore(log.Named("state"))
	if cfg.HasValidSession(time.Now()) {
		store.Dispatch(state.SetUser{User: &kb.User{Email: cfg.UserEmail}})
	}

	remote := gateway.NewClient(cfg.ServerURL, func() string {
		token, err := cfg.SessionToken(time.Now())
		if err != nil {
			return ""
		}
		return token
	}, log.Named("gateway"))

	transcriber := voice.NewTranscriber(cfg.TranscribeURL, cfg.Transcribe, log.Named("voice"))
	pipeline := voice.NewPipeline(voice.NewExecRecorder(), transcriber, log.Named("voice"))

	return &App{
		Cfg:    cfg,
		Store:  store,
		Remote: remote,
		Voice:  pipeline,
		Log:    log,
	}, nil
}

// newLogger writes structured logs to the config directory so the TUI
// screen stays clean.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{cfg.GetLogPath()}
	zc.ErrorOutputPaths = []string{cfg.GetLogPath()}
	return zc.Build()
}
