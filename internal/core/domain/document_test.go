package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory_Valid(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCategory_Invalid(t *testing.T) {
	tests := []string{"", "Products", "unknown", "GENERAL"}
	for _, s := range tests {
		_, err := ParseCategory(s)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", s)
	}
}

func TestAllCategories_Count(t *testing.T) {
	assert.Len(t, AllCategories(), 7)
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryBrand.IsValid())
	assert.False(t, Category("brands").IsValid())
}

func TestDocument_Deleted(t *testing.T) {
	doc := Document{}
	assert.False(t, doc.Deleted())

	now := time.Now()
	doc.DeletedAt = &now
	assert.True(t, doc.Deleted())
}

func TestDocument_Embedded(t *testing.T) {
	doc := Document{EmbeddingStatus: EmbeddingNotStarted}
	assert.False(t, doc.Embedded())

	doc.EmbeddingStatus = EmbeddingProcessing
	assert.False(t, doc.Embedded())

	doc.EmbeddingStatus = EmbeddingCompleted
	assert.True(t, doc.Embedded())
}
