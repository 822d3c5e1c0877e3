package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/draftly-ai/ragcore/internal/chunker"
	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
	"github.com/draftly-ai/ragcore/internal/core/ports/driving"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// Ensure EmbedService implements the interface.
var _ driving.EmbedService = (*EmbedService)(nil)

// EmbedService runs the re-embedding workflow: re-chunk the document's
// current content, embed every chunk, then replace the stored rows.
// The old rows are deleted before the new ones are written and there is
// no rollback; a failed run leaves the document partially embedded
// until the next successful run replaces everything again.
type EmbedService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewEmbedService creates a new embedding workflow service.
func NewEmbedService(docStore driven.DocumentStore, embedder driven.EmbeddingService) *EmbedService {
	return &EmbedService{
		docStore: docStore,
		embedder: embedder,
	}
}

// ReembedDocument embeds the document identified by documentID. All
// failures are reported through the result rather than an error return,
// so callers polling the document row always see a terminal state.
func (s *EmbedService) ReembedDocument(ctx context.Context, documentID int64, userID string) domain.ReembedResult {
	logger.Section("Re-embed Document")
	logger.Debug("Document %d for user %s", documentID, userID)

	doc, err := s.docStore.GetDocument(ctx, documentID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ReembedResult{Error: "Document not found"}
		}
		return s.fail(fmt.Errorf("load document: %w", err))
	}

	chunks := chunker.ForCategory(doc.Category).Split(doc.Content)
	logger.Debug("Split into %d chunks", len(chunks))

	if err := s.docStore.SetEmbeddingState(ctx, documentID, domain.EmbeddingProcessing, len(chunks), 0); err != nil {
		return s.fail(fmt.Errorf("mark processing: %w", err))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return s.fail(fmt.Errorf("embed chunks: %w", err))
	}
	if len(vectors) != len(chunks) {
		return s.fail(fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	if err := s.docStore.DeleteChunks(ctx, documentID); err != nil {
		return s.fail(fmt.Errorf("delete old chunks: %w", err))
	}

	model := s.embedder.ModelName()
	for i, c := range chunks {
		row := &domain.ChunkEmbedding{
			ID:          uuid.New().String(),
			DocumentID:  documentID,
			ChunkIndex:  c.Index,
			ChunkText:   c.Text,
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
			Embedding:   vectors[i],
			Model:       model,
		}
		if err := s.docStore.InsertChunk(ctx, row); err != nil {
			return s.fail(fmt.Errorf("insert chunk %d: %w", i, err))
		}
		if err := s.docStore.UpdateEmbeddingProgress(ctx, documentID, i+1); err != nil {
			return s.fail(fmt.Errorf("update progress: %w", err))
		}
	}

	if err := s.docStore.MarkEmbedded(ctx, documentID, model, time.Now().UTC()); err != nil {
		return s.fail(fmt.Errorf("mark embedded: %w", err))
	}

	logger.Info("Re-embedded document %d: %d chunks", documentID, len(chunks))
	return domain.ReembedResult{
		Success:         true,
		ChunksProcessed: len(chunks),
	}
}

func (s *EmbedService) fail(err error) domain.ReembedResult {
	logger.Warn("Re-embed failed: %v", err)
	return domain.ReembedResult{Error: err.Error()}
}
