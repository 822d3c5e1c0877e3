package chunker

import "github.com/draftly-ai/ragcore/internal/core/domain"

// ForCategory returns a Splitter tuned for a document category.
//
// Product and offer detail benefits from smaller chunks for retrieval
// precision; brand voice documents get larger chunks for continuity;
// long-form content splits at sentence boundaries instead of
// paragraphs.
func ForCategory(category domain.Category) *Splitter {
	switch category {
	case domain.CategoryProducts:
		return New(WithMaxChunkSize(800), WithOverlap(100))
	case domain.CategoryBrand:
		return New(WithMaxChunkSize(1300), WithOverlap(200))
	case domain.CategoryAudience:
		return New(WithMaxChunkSize(1000), WithOverlap(150))
	case domain.CategoryContent:
		return New(WithMaxChunkSize(1200), WithOverlap(150), WithParagraphs(false), WithSentences(true))
	case domain.CategoryCompetitors:
		return New(WithMaxChunkSize(1000), WithOverlap(150))
	default:
		return New()
	}
}
