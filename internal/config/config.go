package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "ENFOCO_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ENFOCO_*). A double underscore separates
// nested keys: ENFOCO_GATEWAY__TIMEOUT sets gateway.timeout.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// A provider switch without an explicit model picks that provider's default.
	if !k.Exists("model") && cfg.Provider != ProviderGoogle {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// envKey maps ENFOCO_GATEWAY__DATASET_MAX_BYTES to gateway.dataset_max_bytes.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGoogle:     true,
	ProviderGenAI:      true,
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
	ProviderAnthropic:  true,
	ProviderOllama:     true,
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, genai, openai, openrouter, anthropic, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	g := c.Gateway
	if g.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive")
	}
	if g.DatasetMaxBytes <= 0 {
		return fmt.Errorf("gateway.dataset_max_bytes must be positive")
	}
	if g.ContextMaxChars <= 0 {
		return fmt.Errorf("gateway.context_max_chars must be positive")
	}
	if g.RequestsPerMinute < 0 {
		return fmt.Errorf("gateway.requests_per_minute must be non-negative")
	}
	if g.MaxOutputTokens < 0 {
		return fmt.Errorf("gateway.max_output_tokens must be non-negative")
	}

	n := c.Navigator
	if n.ScrollThreshold < 0 {
		return fmt.Errorf("navigator.scroll_threshold must be non-negative")
	}
	if n.ScrollCooldown < 0 {
		return fmt.Errorf("navigator.scroll_cooldown must be non-negative")
	}
	if n.SessionTTL <= 0 {
		return fmt.Errorf("navigator.session_ttl must be positive")
	}

	if c.Log.Level != "" && !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be console or json", c.Log.Format)
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGoogle, ProviderGenAI:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
