package llm

import (
	"os"
	"strconv"
)

// Config holds all configuration for talking to the completion server.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"` // 0 waits for as long as the server takes
	LogCalls  bool   `yaml:"log_calls"`
}

// DefaultConfig returns a Config pointing at a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://localhost:11434",
		Model:     "codegemma",
		TimeoutMs: 0,
		LogCalls:  false,
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides cfg with any HEDGEHOG_* variables that are set.
// Unparseable values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("HEDGEHOG_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("HEDGEHOG_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("HEDGEHOG_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("HEDGEHOG_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
}
