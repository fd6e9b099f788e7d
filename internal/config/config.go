package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okozlov/quill/internal/constants"
)

// ErrNoToken indicates that no session token is stored, as opposed to a
// stored token that has expired.
var ErrNoToken = errors.New("no session token stored")

// TranscribeParams are sent with every transcription upload. Lang falls
// back to the configured language when empty.
type TranscribeParams struct {
	Lang        string  `yaml:"lang"        json:"lang"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	BeamSize    int     `yaml:"beam_size"   json:"beam_size"`
}

type Config struct {
	ServerURL     string           `yaml:"server_url"     json:"server_url"`
	TranscribeURL string           `yaml:"transcribe_url" json:"transcribe_url"`
	Language      string           `yaml:"language"       json:"language"`
	Token         string           `yaml:"token"          json:"token"`
	TokenExpiry   time.Time        `yaml:"token_expiry"   json:"token_expiry"`
	UserEmail     string           `yaml:"user_email"     json:"user_email"`
	Transcribe    TranscribeParams `yaml:"transcribe"     json:"transcribe"`

	home string `yaml:"-" json:"-"`
}

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

func GetLogPath(homeDir string) string {
	return filepath.Join(homeDir, constants.ConfigDir, constants.LogFile)
}

func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	return nil
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{home: home}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ensureDefaults()
	return cfg, nil
}

func (cfg *Config) ensureDefaults() {
	if cfg.ServerURL == "" {
		cfg.ServerURL = constants.DefaultServerURL
	}
	if cfg.TranscribeURL == "" {
		cfg.TranscribeURL = constants.DefaultTranscribeURL
	}
	if cfg.Language == "" {
		cfg.Language = constants.DefaultLanguage
	}
	if cfg.Transcribe.Lang == "" {
		cfg.Transcribe.Lang = cfg.Language
	}
	if cfg.Transcribe.Temperature == 0 {
		cfg.Transcribe.Temperature = 0.2
	}
	if cfg.Transcribe.BeamSize == 0 {
		cfg.Transcribe.BeamSize = 5
	}
}

func (cfg *Config) GetConfigPath() string {
	return GetConfigPath(cfg.home)
}

func (cfg *Config) GetLogPath() string {
	return GetLogPath(cfg.home)
}

func (cfg *Config) Save() error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// ChangeToken stores a new session token with its expiry and persists
// the config immediately.
func (cfg *Config) ChangeToken(token string, expiry time.Time, email string) error {
	cfg.Token = token
	cfg.TokenExpiry = expiry
	cfg.UserEmail = email
	return cfg.Save()
}

// ClearToken drops the stored session.
func (cfg *Config) ClearToken() error {
	cfg.Token = ""
	cfg.TokenExpiry = time.Time{}
	cfg.UserEmail = ""
	return cfg.Save()
}

// HasValidSession reports whether a token is stored and unexpired. A
// token without a recorded expiry is treated as expired.
func (cfg *Config) HasValidSession(now time.Time) bool {
	if cfg.Token == "" {
		return false
	}
	if cfg.TokenExpiry.IsZero() {
		return false
	}
	return now.Before(cfg.TokenExpiry)
}

// SessionToken returns the stored token, ErrNoToken when none is stored,
// or an expiry error when the session has lapsed.
func (cfg *Config) SessionToken(now time.Time) (string, error) {
	if cfg.Token == "" {
		return "", ErrNoToken
	}
	if !cfg.HasValidSession(now) {
		return "", fmt.Errorf("session expired at %s, log in again", cfg.TokenExpiry.Format(time.RFC3339))
	}
	return cfg.Token, nil
}

// ChangeLanguage updates the transcription language preference and
// persists it.
func (cfg *Config) ChangeLanguage(lang string) error {
	cfg.Language = lang
	cfg.Transcribe.Lang = lang
	return cfg.Save()
}
