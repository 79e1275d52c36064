package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanograph-ai/nanograph/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "ollama", cfg.Client.Provider)
	assert.Equal(t, "nanograph.log", cfg.Cache.LogFile)
	assert.True(t, cfg.Formatting.TrimWhitespace)

	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	yaml := `
logging:
  level: debug
  format: text
client:
  provider: anthropic
  model: claude-3-haiku
  system_prompt: "You are terse."
formatting:
  max_length: 512
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "anthropic", cfg.Client.Provider)
	assert.Equal(t, "claude-3-haiku", cfg.Client.Model)
	assert.Equal(t, "You are terse.", cfg.Client.SystemPrompt)
	assert.Equal(t, 512, cfg.Formatting.MaxLength)

	// untouched sections keep their defaults
	assert.Equal(t, "nanograph.log", cfg.Cache.LogFile)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("NANOGRAPH_TEST_KEY", "sk-123")

	yaml := `
client:
  provider: openai
  model: gpt-4o
  api_key: ${NANOGRAPH_TEST_KEY}
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)
	assert.Equal(t, "sk-123", cfg.Client.APIKey)
}

func TestLoadEnvVarDefaults(t *testing.T) {
	yaml := `
client:
  provider: openai
  model: ${NANOGRAPH_UNSET_MODEL:-gpt-4o-mini}
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Client.Model)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bad log level",
			yaml: "logging:\n  level: verbose\n",
		},
		{
			name: "bad mode",
			yaml: "client:\n  provider: openai\n  model: gpt-4o\n  mode: freeform\n",
		},
		{
			name: "missing model",
			yaml: "client:\n  provider: openai\n  model: \"\"\n",
		},
		{
			name: "negative max length",
			yaml: "formatting:\n  max_length: -1\n",
		},
		{
			name: "not yaml",
			yaml: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, &errors.NanographError{Type: errors.ConfigError}))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nanograph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  provider: openai\n  model: gpt-4o\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Client.Model)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestConfigStringRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.APIKey = "sk-secret"

	s := cfg.String()
	assert.NotContains(t, s, "sk-secret")
	assert.Contains(t, s, "***")
}
