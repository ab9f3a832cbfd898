package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_LocalOllama(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Equal(t, "codegemma", cfg.Model)
	assert.Zero(t, cfg.TimeoutMs, "no timeout unless configured")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HEDGEHOG_ENDPOINT", "http://gpu-box:11434")
	t.Setenv("HEDGEHOG_MODEL", "qwen2.5-coder")
	t.Setenv("HEDGEHOG_TIMEOUT_MS", "30000")
	t.Setenv("HEDGEHOG_LOG_CALLS", "true")

	cfg := LoadConfig()

	assert.Equal(t, "http://gpu-box:11434", cfg.Endpoint)
	assert.Equal(t, "qwen2.5-coder", cfg.Model)
	assert.Equal(t, 30000, cfg.TimeoutMs)
	assert.True(t, cfg.LogCalls)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("HEDGEHOG_TIMEOUT_MS", "-5")
	t.Setenv("HEDGEHOG_LOG_CALLS", "sometimes")

	cfg := LoadConfig()

	assert.Zero(t, cfg.TimeoutMs)
	assert.False(t, cfg.LogCalls)
}
