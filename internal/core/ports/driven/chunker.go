package driven

import "github.com/custodia-labs/semantica/internal/core/domain"

// ChunkingStrategy splits unit content into an ordered sequence of chunks
// with stable offsets into the original content. Empty or whitespace-only
// input yields an empty sequence.
type ChunkingStrategy interface {
	// StrategyID returns the registered chunker id (e.g. "fixed", "recursive").
	StrategyID() string

	// Chunk splits content into chunks. Offsets are byte offsets into content.
	Chunk(content string) ([]domain.Chunk, error)
}
