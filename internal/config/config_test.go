package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HEDGEHOG_ENDPOINT", "HEDGEHOG_MODEL", "HEDGEHOG_TIMEOUT_MS", "HEDGEHOG_LOG_CALLS",
		"HEDGEHOG_PREVIEW", "HEDGEHOG_LOG_LEVEL", "HEDGEHOG_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
llm:
  endpoint: http://gpu-box:11434
  model: qwen2.5-coder
  timeout_ms: 30000
preview: Browser
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.Endpoint)
	assert.Equal(t, "qwen2.5-coder", cfg.LLM.Model)
	assert.Equal(t, 30000, cfg.LLM.TimeoutMs)
	assert.Equal(t, PreviewBrowser, cfg.Preview)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl.Level())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "llm:\n  model: from-file\npreview: browser\n")
	t.Setenv("HEDGEHOG_MODEL", "from-env")
	t.Setenv("HEDGEHOG_PREVIEW", "terminal")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, PreviewTerminal, cfg.Preview)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad yaml", body: "llm: [unclosed"},
		{name: "bad preview", body: "preview: popup"},
		{name: "bad level", env: map[string]string{"HEDGEHOG_LOG_LEVEL": "loud"}},
		{name: "empty endpoint", body: "llm:\n  endpoint: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEDGEHOG_CONFIG", "/etc/hedgehog.yaml")
	assert.Equal(t, "/etc/hedgehog.yaml", Path())
}
