// Package config assembles runtime settings from an optional YAML file and
// HEDGEHOG_* environment variables. The file is read first; the
// environment wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/hedgehog/internal/llm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Preview modes.
const (
	PreviewAuto     = "auto"
	PreviewTerminal = "terminal"
	PreviewBrowser  = "browser"
)

// ErrInvalid reports a setting outside its allowed values.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a command needs to run.
type Config struct {
	LLM      llm.Config `yaml:"llm"`
	Preview  string     `yaml:"preview"`
	LogLevel string     `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LLM:      llm.DefaultConfig(),
		Preview:  PreviewAuto,
		LogLevel: "warn",
	}
}

// Path returns the config file location: $HEDGEHOG_CONFIG, else
// ~/.config/hedgehog/config.yaml. It returns "" when no home is known.
func Path() string {
	if p := os.Getenv("HEDGEHOG_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hedgehog", "config.yaml")
}

// Load reads the file at path, if it exists, then applies the environment.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	llm.ApplyEnv(&cfg.LLM)
	if v := os.Getenv("HEDGEHOG_PREVIEW"); v != "" {
		cfg.Preview = v
	}
	if v := os.Getenv("HEDGEHOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.Preview = strings.ToLower(strings.TrimSpace(cfg.Preview))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Preview {
	case PreviewAuto, PreviewTerminal, PreviewBrowser:
	default:
		return fmt.Errorf("%w: preview %q (want auto, terminal or browser)", ErrInvalid, c.Preview)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("%w: empty endpoint", ErrInvalid)
	}
	if c.LLM.TimeoutMs < 0 {
		return fmt.Errorf("%w: negative timeout_ms", ErrInvalid)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zap.AtomicLevel, error) {
	lvl, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}
