package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftly-ai/ragcore/internal/adapters/driven/storage/memory"
	"github.com/draftly-ai/ragcore/internal/core/domain"
)

func seedDocument(t *testing.T, store *memory.DocumentStore, content string) *domain.Document {
	t.Helper()
	doc := &domain.Document{
		UserID:          testUser,
		Title:           "doc",
		Category:        domain.CategoryGeneral,
		Content:         content,
		EmbeddingStatus: domain.EmbeddingNotStarted,
	}
	require.NoError(t, store.SaveDocument(context.Background(), doc))
	return doc
}

func TestReembedDocument_NotFound(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewEmbedService(store, &stubEmbedder{})

	result := svc.ReembedDocument(context.Background(), 999, testUser)

	assert.False(t, result.Success)
	assert.Equal(t, "Document not found", result.Error)
	assert.Zero(t, result.ChunksProcessed)
}

func TestReembedDocument_WrongUser(t *testing.T) {
	store := memory.NewDocumentStore()
	doc := seedDocument(t, store, "some content")
	svc := NewEmbedService(store, &stubEmbedder{})

	result := svc.ReembedDocument(context.Background(), doc.ID, "someone-else")

	assert.False(t, result.Success)
	assert.Equal(t, "Document not found", result.Error)
}

func TestReembedDocument_SingleChunk(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc := seedDocument(t, store, "A short document.")

	embedder := &stubEmbedder{queryVec: []float32{1, 0}}
	svc := NewEmbedService(store, embedder)

	result := svc.ReembedDocument(ctx, doc.ID, testUser)

	require.True(t, result.Success, "unexpected error: %s", result.Error)
	assert.Equal(t, 1, result.ChunksProcessed)

	updated, err := store.GetDocument(ctx, doc.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingCompleted, updated.EmbeddingStatus)
	assert.Equal(t, 1, updated.ChunksCount)
	assert.Equal(t, 1, updated.EmbeddingProgress)
	assert.Equal(t, "stub-model", updated.EmbeddingModel)
	require.NotNil(t, updated.LastEmbeddedAt)

	candidates, err := store.SearchCandidates(ctx, testUser, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "A short document.", candidates[0].ChunkText)
	assert.Equal(t, 0, candidates[0].ChunkIndex)
}

func TestReembedDocument_MultiChunk(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()

	// Three paragraphs too large to merge under the general preset.
	content := strings.Repeat("a", 4000) + "\n\n" + strings.Repeat("b", 4000) + "\n\n" + strings.Repeat("c", 4000)
	doc := seedDocument(t, store, content)

	embedder := &stubEmbedder{queryVec: []float32{1, 0}}
	svc := NewEmbedService(store, embedder)

	result := svc.ReembedDocument(ctx, doc.ID, testUser)

	require.True(t, result.Success, "unexpected error: %s", result.Error)
	assert.Greater(t, result.ChunksProcessed, 1)

	updated, err := store.GetDocument(ctx, doc.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksProcessed, updated.ChunksCount)
	assert.Equal(t, result.ChunksProcessed, updated.EmbeddingProgress)

	candidates, err := store.SearchCandidates(ctx, testUser, nil)
	require.NoError(t, err)
	require.Len(t, candidates, result.ChunksProcessed)
	for i, cand := range candidates {
		assert.Equal(t, i, cand.ChunkIndex)
	}
}

func TestReembedDocument_ReplacesOldChunks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc := seedDocument(t, store, "Fresh content.")

	// Stale rows from a previous run.
	require.NoError(t, store.InsertChunk(ctx, &domain.ChunkEmbedding{
		ID:         "stale-1",
		DocumentID: doc.ID,
		ChunkIndex: 0,
		ChunkText:  "old text",
		Embedding:  []float32{0, 1},
		Model:      "old-model",
	}))

	svc := NewEmbedService(store, &stubEmbedder{queryVec: []float32{1, 0}})
	result := svc.ReembedDocument(ctx, doc.ID, testUser)

	require.True(t, result.Success, "unexpected error: %s", result.Error)

	candidates, err := store.SearchCandidates(ctx, testUser, nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Fresh content.", candidates[0].ChunkText)
}

func TestReembedDocument_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc := seedDocument(t, store, "Some content to embed.")

	embedder := &stubEmbedder{batchFn: func([]string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}}
	svc := NewEmbedService(store, embedder)

	result := svc.ReembedDocument(ctx, doc.ID, testUser)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "embed chunks")
	assert.Contains(t, result.Error, "quota exceeded")
	assert.Zero(t, result.ChunksProcessed)

	// No rollback: the document stays in processing until a later run
	// succeeds.
	updated, err := store.GetDocument(ctx, doc.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProcessing, updated.EmbeddingStatus)
}

func TestReembedDocument_VectorCountMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc := seedDocument(t, store, "Some content to embed.")

	embedder := &stubEmbedder{batchFn: func([]string) ([][]float32, error) {
		return [][]float32{}, nil
	}}
	svc := NewEmbedService(store, embedder)

	result := svc.ReembedDocument(ctx, doc.ID, testUser)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "vectors")
}
