package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftly-ai/ragcore/internal/adapters/driven/storage/memory"
	"github.com/draftly-ai/ragcore/internal/core/domain"
)

func TestDocumentCreate(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())

	doc, err := svc.Create(context.Background(), testUser, "Pricing", domain.CategoryOffers, "Annual plans save 20%.")

	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, testUser, doc.UserID)
	assert.Equal(t, domain.EmbeddingNotStarted, doc.EmbeddingStatus)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentCreate_Validation(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		title    string
		category domain.Category
		content  string
	}{
		{"empty title", "", domain.CategoryGeneral, "content"},
		{"whitespace title", "   ", domain.CategoryGeneral, "content"},
		{"empty content", "title", domain.CategoryGeneral, ""},
		{"invalid category", "title", domain.Category("bogus"), "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testUser, tt.title, tt.category, tt.content)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestDocumentGet_ScopedToOwner(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())
	ctx := context.Background()

	doc, err := svc.Create(ctx, testUser, "Title", domain.CategoryGeneral, "content")
	require.NoError(t, err)

	got, err := svc.Get(ctx, doc.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = svc.Get(ctx, doc.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentList_ByCategory(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, "P", domain.CategoryProducts, "content")
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, "B", domain.CategoryBrand, "content")
	require.NoError(t, err)

	all, err := svc.List(ctx, testUser, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	products, err := svc.List(ctx, testUser, []domain.Category{domain.CategoryProducts})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P", products[0].Title)
}

func TestDocumentDelete(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())
	ctx := context.Background()

	doc, err := svc.Create(ctx, testUser, "Title", domain.CategoryGeneral, "content")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, doc.ID, testUser))

	_, err = svc.Get(ctx, doc.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := svc.List(ctx, testUser, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Deleting twice reports not found.
	assert.ErrorIs(t, svc.Delete(ctx, doc.ID, testUser), domain.ErrNotFound)
}
