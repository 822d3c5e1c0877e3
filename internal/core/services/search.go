package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
	"github.com/draftly-ai/ragcore/internal/core/ports/driving"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService scores a user's stored chunk embeddings against a
// query vector. The scan is a brute-force linear pass over every
// candidate in scope; ranking behaviour depends on that, so swapping in
// an approximate index is an extension point, not a drop-in change.
type SearchService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(docStore driven.DocumentStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		docStore: docStore,
		embedder: embedder,
	}
}

// SemanticSearch embeds the query once, scores every candidate chunk,
// and returns results at or above the threshold, sorted by score
// descending and truncated to the limit.
func (s *SearchService) SemanticSearch(
	ctx context.Context, userID, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)

	categories := opts.Categories
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = domain.DefaultThreshold
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	logger.Debug("Categories: %v, threshold: %.2f, limit: %d", categories, threshold, limit)

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVec))

	candidates, err := s.docStore.SearchCandidates(ctx, userID, categories)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	logger.Debug("Candidates: %d chunks", len(candidates))

	results := make([]domain.SearchResult, 0, len(candidates))
	for i := range candidates {
		cand := &candidates[i]

		score, err := CosineSimilarity(queryVec, cand.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score chunk %d of document %d: %w", cand.ChunkIndex, cand.DocumentID, err)
		}
		if score < threshold {
			continue
		}

		result := domain.SearchResult{
			DocumentID:  cand.DocumentID,
			Title:       cand.Title,
			Category:    cand.Category,
			ChunkIndex:  cand.ChunkIndex,
			Score:       score,
			StartOffset: cand.StartOffset,
			EndOffset:   cand.EndOffset,
		}
		if opts.IncludeText {
			result.ChunkText = cand.ChunkText
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Semantic search: %d results", len(results))
	return results, nil
}

// HybridSearch reorders the semantic result set by blending the
// max-normalised semantic score with a keyword-overlap score. The
// original threshold and limit are not re-applied after blending:
// callers see exactly the semantic-stage result set with rescored
// ordering.
func (s *SearchService) HybridSearch(
	ctx context.Context, userID, query string, opts domain.HybridOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Hybrid Search")

	semanticWeight := opts.SemanticWeight
	if semanticWeight == 0 {
		semanticWeight = domain.DefaultSemanticWeight
	}
	keywordWeight := opts.KeywordWeight
	if keywordWeight == 0 {
		keywordWeight = domain.DefaultKeywordWeight
	}

	// Keyword scoring needs the chunk text regardless of what the
	// caller asked for; it is blanked again below.
	semOpts := opts.SearchOptions
	semOpts.IncludeText = true

	results, err := s.SemanticSearch(ctx, userID, query, semOpts)
	if err != nil {
		return nil, err
	}

	maxScore := 0.0
	for i := range results {
		if results[i].Score > maxScore {
			maxScore = results[i].Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	queryWords := tokenizeQuery(query)
	logger.Debug("Query words: %d, max semantic score: %.4f", len(queryWords), maxScore)

	for i := range results {
		normalized := results[i].Score / maxScore
		keyword := keywordScore(queryWords, results[i].ChunkText)
		results[i].Score = normalized*semanticWeight + keyword*keywordWeight
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if !opts.IncludeText {
		for i := range results {
			results[i].ChunkText = ""
		}
	}

	logger.Info("Hybrid search: %d results", len(results))
	return results, nil
}

// tokenizeQuery lowercases the query and keeps distinct words longer
// than 2 characters.
func tokenizeQuery(query string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) <= 2 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// keywordScore is the fraction of distinct query words appearing as
// substrings of the chunk text.
func keywordScore(queryWords []string, chunkText string) float64 {
	if len(queryWords) == 0 {
		return 0
	}

	textLower := strings.ToLower(chunkText)
	matches := 0
	for _, w := range queryWords {
		if strings.Contains(textLower, w) {
			matches++
		}
	}

	return float64(matches) / float64(len(queryWords))
}
