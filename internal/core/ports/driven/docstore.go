package driven

import (
	"context"
	"time"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// ChunkCandidate is a chunk row joined to its owning document, as
// fetched for scoring. The similarity scan is brute force by design:
// every candidate in scope is loaded and scored in memory.
type ChunkCandidate struct {
	DocumentID  int64
	Title       string
	Category    domain.Category
	ChunkIndex  int
	ChunkText   string
	StartOffset int
	EndOffset   int
	Embedding   []float32
}

// DocumentStore persists documents and their chunk embeddings.
type DocumentStore interface {
	// SaveDocument stores a document, assigning ID on first insert,
	// or updates an existing one.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a non-deleted document scoped to its
	// owner. Returns domain.ErrNotFound when the document does not
	// exist, is soft-deleted, or belongs to another user.
	GetDocument(ctx context.Context, id int64, userID string) (*domain.Document, error)

	// ListDocuments returns the user's non-deleted documents,
	// optionally restricted to a category set. Nil categories means
	// all.
	ListDocuments(ctx context.Context, userID string, categories []domain.Category) ([]domain.Document, error)

	// SoftDeleteDocument marks a document deleted, excluding it from
	// all future search.
	SoftDeleteDocument(ctx context.Context, id int64, userID string) error

	// SearchCandidates returns every chunk of every non-deleted,
	// fully-embedded document owned by userID whose category is in
	// the given set.
	SearchCandidates(ctx context.Context, userID string, categories []domain.Category) ([]ChunkCandidate, error)

	// DeleteChunks removes all chunk rows for a document.
	DeleteChunks(ctx context.Context, documentID int64) error

	// InsertChunk stores a single chunk-embedding row.
	InsertChunk(ctx context.Context, chunk *domain.ChunkEmbedding) error

	// SetEmbeddingState updates the document's lifecycle columns in
	// one step, typically to begin a (re-)embedding run.
	SetEmbeddingState(ctx context.Context, id int64, status domain.EmbeddingStatus, chunksCount, progress int) error

	// UpdateEmbeddingProgress records the number of chunks embedded
	// so far, for callers polling the document row.
	UpdateEmbeddingProgress(ctx context.Context, id int64, progress int) error

	// MarkEmbedded records a completed embedding run.
	MarkEmbedded(ctx context.Context, id int64, model string, at time.Time) error

	// Close releases resources.
	Close() error
}
