// Package embedding provides a factory that builds the configured
// embedding provider adapter.
package embedding

import (
	"fmt"

	"github.com/draftly-ai/ragcore/internal/adapters/driven/embedding/openai"
	"github.com/draftly-ai/ragcore/internal/adapters/driven/embedding/voyage"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// Provider names accepted in configuration.
const (
	ProviderVoyage = "voyage"
	ProviderOpenAI = "openai"
)

// Config selects and configures an embedding provider.
type Config struct {
	// Provider is "voyage" (default) or "openai".
	Provider string

	// APIKey authenticates against the selected provider.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling. Only the Voyage adapter throttles.
	RequestsPerSecond float64

	// Burst is the throttle burst size.
	Burst int
}

// New creates the embedding service for the configured provider.
func New(cfg Config) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", ProviderVoyage:
		return voyage.NewEmbeddingService(voyage.Config{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		})

	case ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
