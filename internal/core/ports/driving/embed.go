package driving

import (
	"context"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// EmbedService runs the (re-)embedding workflow for a document:
// re-chunk, batch-embed, delete-and-replace stored chunk rows.
type EmbedService interface {
	// ReembedDocument chunks and embeds the document's current
	// content, replacing any previously stored chunk embeddings.
	// Errors are downgraded to a structured result rather than
	// returned, so a polling caller always observes a terminal state.
	// Partial progress is not rolled back on failure; a retried run
	// deletes and replaces whatever was written.
	ReembedDocument(ctx context.Context, documentID int64, userID string) domain.ReembedResult
}

// DocumentService manages the document lifecycle around embedding.
type DocumentService interface {
	// Create stores a new document with embedding not started.
	Create(ctx context.Context, userID, title string, category domain.Category, content string) (*domain.Document, error)

	// Get retrieves a document scoped to its owner.
	Get(ctx context.Context, id int64, userID string) (*domain.Document, error)

	// List returns the user's documents, optionally by category.
	List(ctx context.Context, userID string, categories []domain.Category) ([]domain.Document, error)

	// Delete soft-deletes a document, removing it from search.
	Delete(ctx context.Context, id int64, userID string) error
}
