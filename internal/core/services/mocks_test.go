package services

import (
	"context"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// stubEmbedder is a deterministic EmbeddingService for tests.
type stubEmbedder struct {
	queryVec   []float32
	batchFn    func(texts []string) ([][]float32, error)
	embedErr   error
	model      string
	batchCalls [][]string
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return s.queryVec, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls = append(s.batchCalls, texts)
	if s.batchFn != nil {
		return s.batchFn(texts)
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = s.queryVec
	}
	return vecs, nil
}

func (s *stubEmbedder) ModelName() string {
	if s.model == "" {
		return "stub-model"
	}
	return s.model
}

// stubSearch is a canned SearchService for context-assembler tests.
type stubSearch struct {
	results []domain.SearchResult
	err     error
	gotOpts domain.SearchOptions
}

func (s *stubSearch) SemanticSearch(
	_ context.Context, _, _ string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	s.gotOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubSearch) HybridSearch(
	_ context.Context, _, _ string, _ domain.HybridOptions,
) ([]domain.SearchResult, error) {
	return s.results, s.err
}
