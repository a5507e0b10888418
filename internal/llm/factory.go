package llm

import (
	"fmt"
	"os"
)

// apiKeyEnvVars lists, per provider, the environment variables consulted
// when no explicit key is configured. The first non-empty one wins.
var apiKeyEnvVars = map[string][]string{
	"google":     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"genai":      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai":     {"OPENAI_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
	"anthropic":  {"ANTHROPIC_API_KEY"},
}

// LookupAPIKey returns the first non-empty credential from the provider's
// conventional environment variables.
func LookupAPIKey(providerType string) string {
	for _, name := range apiKeyEnvVars[providerType] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// NewProvider creates a new provider for the given type and model. An empty
// apiKey falls back to the provider's environment variables. baseURL is only
// honoured by the openai and ollama providers.
// Supported provider types: "google", "genai", "openai", "openrouter", "anthropic", "ollama".
func NewProvider(providerType, model, apiKey, baseURL string) (Provider, error) {
	if apiKey == "" {
		apiKey = LookupAPIKey(providerType)
	}

	switch providerType {
	case "google":
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GOOGLE_API_KEY environment variable is not set")
		}
		return NewGoogleProvider(apiKey, model), nil

	case "genai":
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GOOGLE_API_KEY environment variable is not set")
		}
		return NewGenAIProvider(apiKey, model)

	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model, baseURL), nil

	case "openrouter":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		return NewOpenRouterProvider(apiKey, model), nil

	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "ollama":
		host := baseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
