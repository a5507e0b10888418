package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/enfoco/enfoco/internal/carousel"
	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/config"
	"github.com/enfoco/enfoco/internal/gateway"
	"github.com/enfoco/enfoco/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `enfoco init` to create a config file", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return c, nil
}

// loadCatalog returns the configured catalog file, or the embedded one.
func loadCatalog(c *config.Config) (*catalog.Catalog, error) {
	if c.Catalog != "" {
		return catalog.LoadFile(c.Catalog)
	}
	return catalog.Default()
}

// newNavigator builds the helix ring with the configured scroll debounce.
func newNavigator(c *config.Config) (*carousel.Navigator, error) {
	return carousel.New(carousel.DefaultItems(), carousel.Config{
		ScrollThreshold: c.Navigator.ScrollThreshold,
		ScrollCooldown:  c.Navigator.ScrollCooldown,
	})
}

// createLLMProviderFromConfig creates the upstream provider, rate limited
// when the config asks for it.
func createLLMProviderFromConfig(c *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(c.Provider), c.Model, c.APIKey, c.BaseURL)
	if err != nil {
		return nil, err
	}
	if c.Gateway.RequestsPerMinute > 0 {
		p = llm.NewRateLimitedProvider(p, c.Gateway.RequestsPerMinute)
	}
	return p, nil
}

// newGateway wires the gateway service. A provider that cannot be built
// leaves the gateway in offline mode instead of failing the command.
func newGateway(c *config.Config, log *zap.Logger) *gateway.Service {
	provider, err := createLLMProviderFromConfig(c)
	if err != nil {
		log.Warn("upstream model unavailable, serving fallbacks only",
			zap.String("provider", string(c.Provider)),
			zap.Error(err),
		)
		provider = nil
	}
	return gateway.NewService(provider, gateway.Options{
		Model:           c.Model,
		Timeout:         c.Gateway.Timeout,
		DatasetMaxBytes: c.Gateway.DatasetMaxBytes,
		ContextMaxChars: c.Gateway.ContextMaxChars,
		MaxOutputTokens: c.Gateway.MaxOutputTokens,
		Logger:          log,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
