package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driving"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextService = (*ContextService)(nil)

// Separator joins context blocks in assembled output.
const contextSeparator = "\n\n---\n\n"

// ContextService assembles retrieval context for prompt injection. It
// runs a relaxed semantic search and packs the results into a token
// budget, keeping the relevance ordering.
type ContextService struct {
	search driving.SearchService
}

// NewContextService creates a new context assembly service.
func NewContextService(search driving.SearchService) *ContextService {
	return &ContextService{search: search}
}

// BuildContext searches with a lowered threshold and a wider limit,
// then greedily packs chunks in score order until the next block would
// exceed maxTokens. Packing stops at the first overflow rather than
// skipping to smaller chunks, so order always follows relevance.
func (s *ContextService) BuildContext(
	ctx context.Context, userID, query string, categories []domain.Category, maxTokens int,
) (*domain.RagContext, error) {
	logger.Section("Context Assembly")

	if maxTokens <= 0 {
		maxTokens = domain.DefaultContextTokens
	}

	results, err := s.search.SemanticSearch(ctx, userID, query, domain.SearchOptions{
		Categories:  categories,
		Threshold:   domain.ContextThreshold,
		Limit:       domain.ContextLimit,
		IncludeText: true,
	})
	if err != nil {
		return nil, fmt.Errorf("context search: %w", err)
	}

	var (
		blocks  []string
		sources []domain.RagSource
		used    int
	)
	for _, r := range results {
		block := fmt.Sprintf("[%s (%s)]\n%s", r.Title, r.Category, r.ChunkText)
		cost := domain.EstimateTokens(block)
		if used+cost > maxTokens {
			break
		}
		used += cost
		blocks = append(blocks, block)
		sources = append(sources, domain.RagSource{
			DocumentID: r.DocumentID,
			Title:      r.Title,
			Score:      r.Score,
		})
	}

	logger.Info("Context: %d blocks, ~%d tokens", len(blocks), used)
	return &domain.RagContext{
		Context: strings.Join(blocks, contextSeparator),
		Sources: sources,
	}, nil
}
