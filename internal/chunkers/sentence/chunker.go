// Package sentence provides a sentence-boundary chunking strategy.
package sentence

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkingStrategy = (*Chunker)(nil)

// StrategyID is the registered chunker id.
const StrategyID = "sentence"

// DefaultMaxChunkSize is the default upper bound in characters.
const DefaultMaxChunkSize = 1000

// DefaultMinChunkSize is the default lower bound in characters.
const DefaultMinChunkSize = 100

// sentenceEnd matches a sentence terminator followed by whitespace.
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Chunker accumulates sentences into a buffer and flushes the buffer as a
// chunk when adding the next sentence would exceed the maximum and the
// buffer has already reached the minimum. Only the final chunk may fall
// below the minimum.
type Chunker struct {
	maxChunkSize int
	minChunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the upper bound in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) { c.maxChunkSize = size }
}

// WithMinChunkSize sets the lower bound in characters.
func WithMinChunkSize(size int) Option {
	return func(c *Chunker) { c.minChunkSize = size }
}

// New creates a sentence chunker. The maximum must be positive and the
// minimum must not exceed it.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxChunkSize: DefaultMaxChunkSize,
		minChunkSize: DefaultMinChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", domain.ErrInvalidInput, c.maxChunkSize)
	}
	if c.minChunkSize < 0 || c.minChunkSize > c.maxChunkSize {
		return nil, fmt.Errorf("%w: min chunk size %d must be in [0, max %d]", domain.ErrInvalidInput, c.minChunkSize, c.maxChunkSize)
	}

	return c, nil
}

// StrategyID returns the registered chunker id.
func (c *Chunker) StrategyID() string {
	return StrategyID
}

// Chunk splits content on sentence boundaries. Empty or whitespace-only
// content yields no chunks.
func (c *Chunker) Chunk(content string) ([]domain.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	sentences := splitSentences(content)

	var fragments []string
	var buffer strings.Builder

	for _, s := range sentences {
		if buffer.Len() > 0 &&
			buffer.Len()+len(s) > c.maxChunkSize &&
			buffer.Len() >= c.minChunkSize {
			fragments = append(fragments, strings.TrimSpace(buffer.String()))
			buffer.Reset()
		}
		buffer.WriteString(s)
	}
	if strings.TrimSpace(buffer.String()) != "" {
		fragments = append(fragments, strings.TrimSpace(buffer.String()))
	}

	chunks := make([]domain.Chunk, 0, len(fragments))
	searchFrom := 0
	for i, fragment := range fragments {
		start, end := locateFragment(content, fragment, searchFrom)
		searchFrom = end
		chunks = append(chunks, domain.Chunk{
			Content:     fragment,
			Index:       i,
			StartOffset: start,
			EndOffset:   end,
			Metadata:    chunkMetadata(StrategyID, i, fragment),
		})
	}

	return chunks, nil
}

// splitSentences splits text after each sentence terminator, keeping the
// terminator and trailing whitespace with the sentence.
func splitSentences(text string) []string {
	boundaries := sentenceEnd.FindAllStringIndex(text, -1)

	var sentences []string
	prev := 0
	for _, b := range boundaries {
		sentences = append(sentences, text[prev:b[1]])
		prev = b[1]
	}
	if prev < len(text) {
		sentences = append(sentences, text[prev:])
	}
	return sentences
}

// locateFragment finds the fragment in content, searching from the end of
// the previous match so repeated fragments still receive monotonically
// increasing offsets.
func locateFragment(content, fragment string, searchFrom int) (int, int) {
	if searchFrom > len(content) {
		searchFrom = len(content)
	}
	idx := strings.Index(content[searchFrom:], fragment)
	if idx < 0 {
		start := searchFrom
		end := start + len(fragment)
		if end > len(content) {
			end = len(content)
		}
		return start, end
	}
	start := searchFrom + idx
	return start, start + len(fragment)
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
