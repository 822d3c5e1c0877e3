package domain

// Default search parameters.
const (
	// DefaultThreshold is the minimum cosine score a candidate must
	// reach to be returned by semantic search.
	DefaultThreshold = 0.7

	// DefaultLimit is the maximum number of semantic search results.
	DefaultLimit = 10

	// DefaultSemanticWeight and DefaultKeywordWeight blend the
	// normalised semantic score with the keyword-overlap score in
	// hybrid search.
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3

	// ContextThreshold and ContextLimit are the recall-oriented
	// pre-filter used when assembling RAG context, deliberately looser
	// than the search defaults.
	ContextThreshold = 0.6
	ContextLimit     = 20

	// DefaultContextTokens is the token budget for assembled context.
	DefaultContextTokens = 4000
)

// SearchOptions configures a semantic search.
type SearchOptions struct {
	// Categories scopes the search. Empty means all categories.
	Categories []Category

	// Threshold is the minimum cosine score to keep a candidate.
	// Zero means DefaultThreshold.
	Threshold float64

	// Limit is the maximum number of results. Zero means DefaultLimit.
	Limit int

	// IncludeText controls whether ChunkText is populated in results.
	IncludeText bool
}

// DefaultSearchOptions returns the standard search configuration.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Categories:  AllCategories(),
		Threshold:   DefaultThreshold,
		Limit:       DefaultLimit,
		IncludeText: true,
	}
}

// HybridOptions configures a hybrid (semantic + keyword) search.
type HybridOptions struct {
	SearchOptions

	// SemanticWeight scales the normalised semantic score.
	// Zero means DefaultSemanticWeight.
	SemanticWeight float64

	// KeywordWeight scales the keyword-overlap score.
	// Zero means DefaultKeywordWeight.
	KeywordWeight float64
}

// DefaultHybridOptions returns the standard hybrid search configuration.
func DefaultHybridOptions() HybridOptions {
	return HybridOptions{
		SearchOptions:  DefaultSearchOptions(),
		SemanticWeight: DefaultSemanticWeight,
		KeywordWeight:  DefaultKeywordWeight,
	}
}

// SearchResult is a single scored chunk. It is transient and never
// persisted.
type SearchResult struct {
	// DocumentID, Title and Category identify the owning document.
	DocumentID int64
	Title      string
	Category   Category

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// ChunkText is the chunk content. Blank when the search was run
	// with IncludeText disabled.
	ChunkText string

	// Score is the cosine similarity for semantic search, or the
	// blended score for hybrid search.
	Score float64

	// StartOffset and EndOffset locate the chunk in the document.
	StartOffset int
	EndOffset   int
}

// RagSource attributes one included chunk to its document. Sources may
// repeat a document ID when several of its chunks were included; the
// attribution is per chunk, not per document.
type RagSource struct {
	DocumentID int64
	Title      string
	Score      float64
}

// RagContext is assembled reference text ready for prompt construction.
type RagContext struct {
	// Context is the packed chunk blocks joined by separators.
	Context string

	// Sources lists one attribution per included chunk.
	Sources []RagSource
}

// ReembedResult reports the outcome of a (re-)embedding run. Failures
// are reported here rather than raised, so a polling caller always gets
// a terminal state.
type ReembedResult struct {
	Success         bool
	ChunksProcessed int

	// Error is the failure message when Success is false.
	Error string
}
