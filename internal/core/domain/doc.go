// Package domain defines the core business entities for Semantica.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A registered reference to external content, with a
//     content-hash version chain
//   - SemanticUnit: The versioned knowledge entity built from sources
//   - SemanticProjection: The chunked + embedded form of a unit version
//   - ProcessingProfile: A named chunking/embedding strategy pairing
//   - Chunk / VectorEntry: The units of content handed to the vector store
//   - KnowledgeLineage: Append-only transformation history
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
