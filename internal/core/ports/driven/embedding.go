package driven

import "context"

// EmbeddingService generates vector embeddings from text via an
// external provider.
//
// Implementations batch, throttle and authenticate as needed, but never
// retry: a single provider failure aborts the whole call and propagates
// to the caller as a *domain.ProviderError.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	// Fails with domain.ErrInvalidInput on empty or whitespace-only
	// input.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. Empty entries are dropped before sending; fails
	// with domain.ErrInvalidInput when nothing remains.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the embedding model identifier.
	ModelName() string
}
