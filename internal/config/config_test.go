package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 20000, cfg.Gateway.DatasetMaxBytes)
	assert.Equal(t, 10000, cfg.Gateway.ContextMaxChars)
	assert.Equal(t, 20.0, cfg.Navigator.ScrollThreshold)
	assert.Equal(t, time.Second, cfg.Navigator.ScrollCooldown)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.enfoco.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Server.Port = 9090
	original.Server.AllowedOrigins = []string{"https://enfoco.example"}
	original.Gateway.Timeout = 12 * time.Second
	original.Navigator.SessionTTL = time.Hour
	original.Log.Format = "json"

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Provider, loaded.Provider)
	assert.Equal(t, original.Model, loaded.Model)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, []string{"https://enfoco.example"}, loaded.Server.AllowedOrigins)
	assert.Equal(t, 12*time.Second, loaded.Gateway.Timeout)
	assert.Equal(t, time.Hour, loaded.Navigator.SessionTTL)
	assert.Equal(t, "json", loaded.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	// A missing file yields defaults, not an error.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, cfg.Provider)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  timeout: 5s\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 20000, cfg.Gateway.DatasetMaxBytes, "dataset cap keeps its default")
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("ENFOCO_PROVIDER", "anthropic")
	t.Setenv("ENFOCO_API_KEY", "sk-test")
	t.Setenv("ENFOCO_GATEWAY__TIMEOUT", "10s")
	t.Setenv("ENFOCO_SERVER__PORT", "8181")
	t.Setenv("ENFOCO_NAVIGATOR__SCROLL_THRESHOLD", "35")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, loaded.Provider)
	assert.Equal(t, "sk-test", loaded.APIKey)
	assert.Equal(t, 10*time.Second, loaded.Gateway.Timeout)
	assert.Equal(t, 8181, loaded.Server.Port)
	assert.Equal(t, 35.0, loaded.Navigator.ScrollThreshold)
}

func TestLoadProviderSwitchPicksModel(t *testing.T) {
	t.Setenv("ENFOCO_PROVIDER", "ollama")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	assert.Equal(t, "llava", cfg.Model)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ENFOCO_PROVIDER":                   "provider",
		"ENFOCO_API_KEY":                    "api_key",
		"ENFOCO_GATEWAY__DATASET_MAX_BYTES": "gateway.dataset_max_bytes",
		"ENFOCO_LOG__LEVEL":                 "log.level",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), "envKey(%q)", in)
	}
}

func TestValidateValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"empty provider":     func(c *Config) { c.Provider = "" },
		"invalid provider":   func(c *Config) { c.Provider = "invalid" },
		"empty model":        func(c *Config) { c.Model = "" },
		"port zero":          func(c *Config) { c.Server.Port = 0 },
		"port too high":      func(c *Config) { c.Server.Port = 70000 },
		"zero timeout":       func(c *Config) { c.Gateway.Timeout = 0 },
		"zero dataset cap":   func(c *Config) { c.Gateway.DatasetMaxBytes = 0 },
		"zero context cap":   func(c *Config) { c.Gateway.ContextMaxChars = 0 },
		"negative rpm":       func(c *Config) { c.Gateway.RequestsPerMinute = -1 },
		"negative tokens":    func(c *Config) { c.Gateway.MaxOutputTokens = -1 },
		"negative threshold": func(c *Config) { c.Navigator.ScrollThreshold = -1 },
		"negative cooldown":  func(c *Config) { c.Navigator.ScrollCooldown = -time.Second },
		"zero session ttl":   func(c *Config) { c.Navigator.SessionTTL = 0 },
		"bad log level":      func(c *Config) { c.Log.Level = "loud" },
		"bad log format":     func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range tests {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5-20251001", DefaultModel(ProviderAnthropic))
	assert.Equal(t, "gemini-2.5-flash", DefaultModel("unknown"), "unknown provider falls back to gemini")
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderGoogle, "GEMINI_API_KEY"},
		{ProviderGenAI, "GEMINI_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, APIKeyEnvVar(tt.provider), "APIKeyEnvVar(%q)", tt.provider)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"https://x.example", []string{"https://x.example"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(tt.want) == 0 {
			assert.Empty(t, got, "splitAndTrim(%q)", tt.input)
			continue
		}
		assert.Equal(t, tt.want, got, "splitAndTrim(%q)", tt.input)
	}
}
