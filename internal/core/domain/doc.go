// Package domain defines the core business entities for the ragcore module.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a user-owned unit of reference text
//   - ChunkEmbedding: one persisted vector for one slice of a document
//   - SearchResult: a scored chunk returned by semantic or hybrid search
//   - RagContext: assembled prompt context with per-chunk attributions
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
