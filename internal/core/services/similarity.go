package services

import (
	"fmt"
	"math"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// CosineSimilarity computes the normalised dot product of two vectors.
// Returns 0 when either vector has zero magnitude rather than dividing
// by zero. Fails with domain.ErrDimensionMismatch when the vectors
// differ in length.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
