package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okozlov/quill/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if cfg.ServerURL == "" || cfg.TranscribeURL == "" {
		t.Fatal("expected endpoint defaults to be filled in")
	}
	if cfg.Transcribe.Lang != "ru" {
		t.Fatalf("expected default transcribe lang ru, got %q", cfg.Transcribe.Lang)
	}
	if cfg.Transcribe.Temperature != 0.2 || cfg.Transcribe.BeamSize != 5 {
		t.Fatalf("expected default transcribe params, got %+v", cfg.Transcribe)
	}
}

func TestLoadKeepsConfiguredValues(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"server_url": "https://kb.example.com/graphql",
		"language":   "en",
	})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	if cfg.ServerURL != "https://kb.example.com/graphql" {
		t.Fatalf("expected configured server url, got %q", cfg.ServerURL)
	}
	if cfg.Transcribe.Lang != "en" {
		t.Fatalf("expected transcribe lang to follow language, got %q", cfg.Transcribe.Lang)
	}
}

func TestChangeTokenPersists(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := cfg.ChangeToken("tok-123", expiry, "user@example.com"); err != nil {
		t.Fatalf("failed to change token: %v", err)
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if reloaded.Token != "tok-123" {
		t.Fatalf("expected persisted token, got %q", reloaded.Token)
	}
	if !reloaded.TokenExpiry.Equal(expiry) {
		t.Fatalf("expected expiry %v, got %v", expiry, reloaded.TokenExpiry)
	}
}

func TestSessionValidity(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name   string
		token  string
		expiry time.Time
		want   bool
	}{
		{"no token", "", time.Time{}, false},
		{"no expiry", "tok", time.Time{}, false},
		{"expired", "tok", now.Add(-time.Minute), false},
		{"valid", "tok", now.Add(time.Minute), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Token: tc.token, TokenExpiry: tc.expiry}
			if got := cfg.HasValidSession(now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSessionTokenErrors(t *testing.T) {
	now := time.Now()

	cfg := &config.Config{}
	if _, err := cfg.SessionToken(now); err != config.ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	cfg = &config.Config{Token: "tok", TokenExpiry: now.Add(-time.Hour)}
	if _, err := cfg.SessionToken(now); err == nil {
		t.Fatal("expected expiry error for lapsed session")
	}

	cfg = &config.Config{Token: "tok", TokenExpiry: now.Add(time.Hour)}
	token, err := cfg.SessionToken(now)
	if err != nil || token != "tok" {
		t.Fatalf("expected stored token, got %q err %v", token, err)
	}
}
