package domain

import (
	"fmt"
	"time"
)

// Category classifies a document within a user's reference library.
// Search can be scoped to any subset of categories.
type Category string

// The fixed set of document categories.
const (
	CategoryGeneral     Category = "general"
	CategoryProducts    Category = "products"
	CategoryOffers      Category = "offers"
	CategoryBrand       Category = "brand"
	CategoryAudience    Category = "audience"
	CategoryCompetitors Category = "competitors"
	CategoryContent     Category = "content"
)

// AllCategories returns every valid category, in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryProducts,
		CategoryOffers,
		CategoryBrand,
		CategoryAudience,
		CategoryCompetitors,
		CategoryContent,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryProducts, CategoryOffers, CategoryBrand,
		CategoryAudience, CategoryCompetitors, CategoryContent:
		return true
	}
	return false
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// EmbeddingStatus tracks the embedding lifecycle of a document.
type EmbeddingStatus string

// Embedding lifecycle states. A document moves not_started -> processing
// -> completed; re-embedding moves it back through processing.
const (
	EmbeddingNotStarted EmbeddingStatus = "not_started"
	EmbeddingProcessing EmbeddingStatus = "processing"
	EmbeddingCompleted  EmbeddingStatus = "completed"
)

// Document is a user-owned unit of reference text. Its chunk embeddings
// are persisted separately as ChunkEmbedding rows.
type Document struct {
	// ID is the store-assigned identifier.
	ID int64

	// UserID is the owning user.
	UserID string

	// Title is the human-readable title.
	Title string

	// Category classifies the document for scoped retrieval.
	Category Category

	// Content is the full raw text, the input to chunking.
	Content string

	// EmbeddingStatus is the current lifecycle state.
	EmbeddingStatus EmbeddingStatus

	// EmbeddingProgress counts chunks embedded so far (1-based after
	// each insert). Callers poll this during (re-)embedding.
	EmbeddingProgress int

	// ChunksCount is the number of chunks the current content splits
	// into. Equals the number of persisted chunk rows once completed.
	ChunksCount int

	// EmbeddingModel identifies the model used for the persisted
	// chunk embeddings. All chunk rows reference the same model.
	EmbeddingModel string

	// LastEmbeddedAt is when embedding last completed.
	LastEmbeddedAt *time.Time

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time

	// DeletedAt marks a soft delete. Soft-deleted documents are
	// excluded from all search.
	DeletedAt *time.Time
}

// Deleted reports whether the document has been soft-deleted.
func (d *Document) Deleted() bool {
	return d.DeletedAt != nil
}

// Embedded reports whether the document's chunk embeddings are complete
// and searchable.
func (d *Document) Embedded() bool {
	return d.EmbeddingStatus == EmbeddingCompleted
}

// ChunkEmbedding is one persisted vector for one slice of a document.
// Chunk indices for a document are contiguous from 0 and offsets are
// monotonically non-decreasing in index order (start offsets may reach
// backwards into the previous chunk by the configured overlap).
type ChunkEmbedding struct {
	// ID is the row identifier (UUID).
	ID string

	// DocumentID links to the parent Document.
	DocumentID int64

	// ChunkIndex is the 0-based, order-significant position.
	ChunkIndex int

	// ChunkText is the raw text of this slice.
	ChunkText string

	// StartOffset and EndOffset are character offsets into the
	// document content.
	StartOffset int
	EndOffset   int

	// Embedding is the vector representation. Its length is constant
	// per model.
	Embedding []float32

	// Model identifies the embedding model that produced the vector.
	Model string
}
