// Package fixed provides a fixed-size sliding-window chunking strategy.
package fixed

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkingStrategy = (*Chunker)(nil)

// StrategyID is the registered chunker id.
const StrategyID = "fixed"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Chunker slides a window of chunkSize with step chunkSize-overlap over the
// content. The last chunk may be shorter.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) { c.chunkSize = size }
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) { c.overlap = overlap }
}

// New creates a fixed-size chunker. Non-positive chunk sizes and overlaps
// that reach the chunk size are configuration errors.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, c.chunkSize)
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, chunk size %d)", domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}

	return c, nil
}

// StrategyID returns the registered chunker id.
func (c *Chunker) StrategyID() string {
	return StrategyID
}

// Chunk splits content into fixed-size windows with overlap. Empty or
// whitespace-only content yields no chunks.
func (c *Chunker) Chunk(content string) ([]domain.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	step := c.chunkSize - c.overlap
	contentLen := len(content)
	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	index := 0
	for start := 0; start < contentLen; start += step {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		fragment := content[start:end]
		chunks = append(chunks, domain.Chunk{
			Content:     fragment,
			Index:       index,
			StartOffset: start,
			EndOffset:   end,
			Metadata:    chunkMetadata(StrategyID, index, fragment),
		})
		index++

		if end == contentLen {
			break
		}
	}

	return chunks, nil
}

// chunkMetadata builds the per-chunk diagnostics attached by all strategies.
func chunkMetadata(strategy string, index int, fragment string) map[string]any {
	return map[string]any{
		"strategy":   strategy,
		"chunkIndex": index,
		"charCount":  len(fragment),
		"wordCount":  len(strings.Fields(fragment)),
	}
}
