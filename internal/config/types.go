package config

import "time"

// ProviderType identifies an upstream model provider.
type ProviderType string

const (
	ProviderGoogle     ProviderType = "google"
	ProviderGenAI      ProviderType = "genai"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level enfoco configuration, corresponding to .enfoco.yml.
type Config struct {
	Provider  ProviderType    `yaml:"provider" koanf:"provider"`
	Model     string          `yaml:"model" koanf:"model"`
	APIKey    string          `yaml:"api_key,omitempty" koanf:"api_key"`
	BaseURL   string          `yaml:"base_url,omitempty" koanf:"base_url"`
	Catalog   string          `yaml:"catalog,omitempty" koanf:"catalog"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Gateway   GatewayConfig   `yaml:"gateway" koanf:"gateway"`
	Navigator NavigatorConfig `yaml:"navigator" koanf:"navigator"`
	Log       LogConfig       `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int      `yaml:"port" koanf:"port"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
}

// GatewayConfig bounds the upstream model calls.
type GatewayConfig struct {
	Timeout           time.Duration `yaml:"timeout" koanf:"timeout"`
	DatasetMaxBytes   int           `yaml:"dataset_max_bytes" koanf:"dataset_max_bytes"`
	ContextMaxChars   int           `yaml:"context_max_chars" koanf:"context_max_chars"`
	RequestsPerMinute int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	MaxOutputTokens   int           `yaml:"max_output_tokens" koanf:"max_output_tokens"`
}

// NavigatorConfig tunes the scroll debounce and session lifetime.
type NavigatorConfig struct {
	ScrollThreshold float64       `yaml:"scroll_threshold" koanf:"scroll_threshold"`
	ScrollCooldown  time.Duration `yaml:"scroll_cooldown" koanf:"scroll_cooldown"`
	SessionTTL      time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
}

// LogConfig selects the zap logger setup.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
	File   string `yaml:"file,omitempty" koanf:"file"`
}
