package config

import "time"

// DefaultPath is where init writes and commands look for the config file.
const DefaultPath = ".enfoco.yml"

// defaultModels maps each provider to the model used when none is set.
var defaultModels = map[ProviderType]string{
	ProviderGoogle:     "gemini-2.5-flash",
	ProviderGenAI:      "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.5-flash",
	ProviderAnthropic:  "claude-haiku-4-5-20251001",
	ProviderOllama:     "llava",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGoogle,
		Model:    "gemini-2.5-flash",
		Server: ServerConfig{
			Port: 8080,
		},
		Gateway: GatewayConfig{
			Timeout:         30 * time.Second,
			DatasetMaxBytes: 20000,
			ContextMaxChars: 10000,
			MaxOutputTokens: 2048,
		},
		Navigator: NavigatorConfig{
			ScrollThreshold: 20,
			ScrollCooldown:  time.Second,
			SessionTTL:      30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultModel returns the model used for provider when none is configured.
// Unknown providers get the Gemini default.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGoogle]
}
