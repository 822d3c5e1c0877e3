package driving

import (
	"context"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// SearchService ranks a user's chunk embeddings against a query.
type SearchService interface {
	// SemanticSearch embeds the query once, scores every candidate
	// chunk by cosine similarity, and returns the results at or above
	// the threshold, sorted descending, truncated to the limit.
	SemanticSearch(ctx context.Context, userID, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// HybridSearch reorders the semantic result set by blending the
	// max-normalised semantic score with a keyword-overlap score. It
	// never filters: callers see exactly the semantic-stage result
	// set with rescored ordering.
	HybridSearch(ctx context.Context, userID, query string, opts domain.HybridOptions) ([]domain.SearchResult, error)
}

// ContextService assembles retrieved reference text for prompt
// construction.
type ContextService interface {
	// BuildContext runs a recall-oriented semantic search and greedily
	// packs ranked chunks into the token budget. Nil categories means
	// all; maxTokens <= 0 means domain.DefaultContextTokens.
	BuildContext(ctx context.Context, userID, query string, categories []domain.Category, maxTokens int) (*domain.RagContext, error)
}
