package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
	"github.com/draftly-ai/ragcore/internal/core/ports/driving"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the document lifecycle. Embedding is a
// separate step; documents are created with embedding not started.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// Create validates and stores a new document.
func (s *DocumentService) Create(
	ctx context.Context, userID, title string, category domain.Category, content string,
) (*domain.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", domain.ErrInvalidInput)
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		UserID:          userID,
		Title:           title,
		Category:        category,
		Content:         content,
		EmbeddingStatus: domain.EmbeddingNotStarted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Created document %d (%s, %s)", doc.ID, doc.Title, doc.Category)
	return doc, nil
}

// Get retrieves a document scoped to its owner.
func (s *DocumentService) Get(ctx context.Context, id int64, userID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id, userID)
}

// List returns the user's documents, optionally filtered by category.
func (s *DocumentService) List(ctx context.Context, userID string, categories []domain.Category) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, userID, categories)
}

// Delete soft-deletes a document. Its chunks stop appearing in search
// results immediately because candidates are scoped to live documents.
func (s *DocumentService) Delete(ctx context.Context, id int64, userID string) error {
	if err := s.docStore.SoftDeleteDocument(ctx, id, userID); err != nil {
		return err
	}
	logger.Info("Deleted document %d", id)
	return nil
}
