// Package memory provides in-memory driven adapters for tests and
// ephemeral runs. Nothing is persisted.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	nextID    int64
	documents map[int64]domain.Document
	chunks    map[int64][]domain.ChunkEmbedding
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		nextID:    1,
		documents: make(map[int64]domain.Document),
		chunks:    make(map[int64][]domain.ChunkEmbedding),
	}
}

// SaveDocument stores a document, assigning its ID on first insert.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == 0 {
		doc.ID = s.nextID
		s.nextID++
	}
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a non-deleted document scoped to its owner.
func (s *DocumentStore) GetDocument(_ context.Context, id int64, userID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID || doc.Deleted() {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns the user's non-deleted documents.
func (s *DocumentStore) ListDocuments(
	_ context.Context, userID string, categories []domain.Category,
) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.Category]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	var result []domain.Document
	for _, doc := range s.documents {
		if doc.UserID != userID || doc.Deleted() {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[doc.Category]; !ok {
				continue
			}
		}
		result = append(result, doc)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SoftDeleteDocument marks a document deleted.
func (s *DocumentStore) SoftDeleteDocument(_ context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID || doc.Deleted() {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	doc.DeletedAt = &now
	doc.UpdatedAt = now
	s.documents[id] = doc
	return nil
}

// SearchCandidates returns every chunk of every live, fully-embedded
// document owned by userID in the given categories.
func (s *DocumentStore) SearchCandidates(
	_ context.Context, userID string, categories []domain.Category,
) ([]driven.ChunkCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.Category]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	var ids []int64
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var candidates []driven.ChunkCandidate
	for _, id := range ids {
		doc := s.documents[id]
		if doc.UserID != userID || doc.Deleted() || !doc.Embedded() {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[doc.Category]; !ok {
				continue
			}
		}
		for _, chunk := range s.chunks[id] {
			candidates = append(candidates, driven.ChunkCandidate{
				DocumentID:  doc.ID,
				Title:       doc.Title,
				Category:    doc.Category,
				ChunkIndex:  chunk.ChunkIndex,
				ChunkText:   chunk.ChunkText,
				StartOffset: chunk.StartOffset,
				EndOffset:   chunk.EndOffset,
				Embedding:   chunk.Embedding,
			})
		}
	}

	return candidates, nil
}

// DeleteChunks removes all chunk rows for a document.
func (s *DocumentStore) DeleteChunks(_ context.Context, documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, documentID)
	return nil
}

// InsertChunk stores a single chunk-embedding row.
func (s *DocumentStore) InsertChunk(_ context.Context, chunk *domain.ChunkEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.DocumentID] = append(s.chunks[chunk.DocumentID], *chunk)
	return nil
}

// SetEmbeddingState updates the document's lifecycle columns in one step.
func (s *DocumentStore) SetEmbeddingState(
	_ context.Context, id int64, status domain.EmbeddingStatus, chunksCount, progress int,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.EmbeddingStatus = status
	doc.ChunksCount = chunksCount
	doc.EmbeddingProgress = progress
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// UpdateEmbeddingProgress records the number of chunks embedded so far.
func (s *DocumentStore) UpdateEmbeddingProgress(_ context.Context, id int64, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.EmbeddingProgress = progress
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// MarkEmbedded records a completed embedding run.
func (s *DocumentStore) MarkEmbedded(_ context.Context, id int64, model string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.EmbeddingStatus = domain.EmbeddingCompleted
	doc.EmbeddingModel = model
	doc.LastEmbeddedAt = &at
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error {
	return nil
}
