package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 2*time.Second, cfg.RumorCheck.FallbackDelay)
	assert.False(t, cfg.Reports.StrictLocationValidation)
}

func TestParse_InterpolatesEnvVars(t *testing.T) {
	t.Setenv("TECHVOTE_TEST_KEY", "secret-123")
	cfg, err := Parse([]byte("llm:\n  provider: gemini\n  api_key: ${TECHVOTE_TEST_KEY}\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret-123", cfg.LLM.APIKey)
}

func TestParse_UnsetCredentialStaysEmpty(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Parse([]byte("llm:\n  api_key: ${TECHVOTE_DEFINITELY_UNSET}\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	assert.Equal(t, "configured", ResolveAPIKey("openai", "configured"))
	assert.Equal(t, "sk-openai", ResolveAPIKey("openai", ""))
	assert.Empty(t, ResolveAPIKey("ollama", ""))

	t.Setenv("API_KEY", "generic")
	assert.Equal(t, "generic", ResolveAPIKey("openai", ""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without url", func(c *Config) { c.Database.Driver = "postgres" }},
		{"bad provider", func(c *Config) { c.LLM.Provider = "bard" }},
		{"negative delay", func(c *Config) { c.RumorCheck.FallbackDelay = -time.Second }},
		{"amqp without url", func(c *Config) { c.Reports.Sink = "amqp" }},
		{"unknown sink", func(c *Config) { c.Reports.Sink = "kafka" }},
		{"zero attachment cap", func(c *Config) { c.Reports.MaxAttachmentBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGenerateSampleLoads(t *testing.T) {
	t.Setenv("API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "log", cfg.Reports.Sink)
	assert.Equal(t, 30*time.Minute, cfg.RumorCheck.CacheTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "does-not-exist-techvote.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}
