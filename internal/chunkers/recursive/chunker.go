// Package recursive provides a separator-based recursive chunking strategy.
package recursive

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkingStrategy = (*Chunker)(nil)

// StrategyID is the registered chunker id.
const StrategyID = "recursive"

// DefaultMaxChunkSize is the default upper bound in characters.
const DefaultMaxChunkSize = 1000

// DefaultOverlap is the overlap used by the terminal windowing fallback.
const DefaultOverlap = 200

// separators is the ordered list tried before falling back to windowing.
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker splits oversized text by each separator in turn, merging adjacent
// pieces back together while they fit. Once separators are exhausted it
// falls back to fixed-size windowing, so arbitrarily long unbroken text
// terminates: the separator list is finite and the windowing case is
// unconditional.
type Chunker struct {
	maxChunkSize int
	overlap      int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the upper bound in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) { c.maxChunkSize = size }
}

// WithOverlap sets the overlap used by the windowing fallback.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) { c.overlap = overlap }
}

// New creates a recursive chunker. Non-positive sizes and overlaps that
// reach the chunk size are configuration errors.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxChunkSize: DefaultMaxChunkSize,
		overlap:      DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", domain.ErrInvalidInput, c.maxChunkSize)
	}
	if c.overlap < 0 || c.overlap >= c.maxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, max chunk size %d)", domain.ErrInvalidInput, c.overlap, c.maxChunkSize)
	}

	return c, nil
}

// StrategyID returns the registered chunker id.
func (c *Chunker) StrategyID() string {
	return StrategyID
}

// span is a half-open byte range into the original content. Working on
// spans instead of substrings keeps offsets exact through the recursion.
type span struct {
	start, end int
}

// Chunk splits content recursively. Content that already fits is returned
// as a single chunk equal to the input. Empty or whitespace-only content
// yields no chunks.
func (c *Chunker) Chunk(content string) ([]domain.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var spans []span
	c.split(content, span{0, len(content)}, 0, &spans)

	chunks := make([]domain.Chunk, 0, len(spans))
	for _, sp := range spans {
		fragment := content[sp.start:sp.end]
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		index := len(chunks)
		chunks = append(chunks, domain.Chunk{
			Content:     fragment,
			Index:       index,
			StartOffset: sp.start,
			EndOffset:   sp.end,
			Metadata:    chunkMetadata(StrategyID, index, fragment),
		})
	}

	return chunks, nil
}

// split appends spans covering s, none longer than maxChunkSize except
// those produced by the overlap-aware windowing fallback.
func (c *Chunker) split(content string, s span, sepIdx int, out *[]span) {
	if s.end-s.start <= c.maxChunkSize {
		*out = append(*out, s)
		return
	}
	if sepIdx >= len(separators) {
		c.window(s, out)
		return
	}

	parts := splitSpan(content, s, separators[sepIdx])
	if len(parts) == 1 {
		c.split(content, s, sepIdx+1, out)
		return
	}

	// Greedily merge adjacent parts back together while they fit, so
	// chunks stay close to the maximum instead of degenerating to the
	// smallest separator granularity.
	emit := func(sp span) {
		if sp.end-sp.start <= c.maxChunkSize {
			*out = append(*out, sp)
		} else {
			c.split(content, sp, sepIdx+1, out)
		}
	}

	current := parts[0]
	for _, p := range parts[1:] {
		if p.end-current.start <= c.maxChunkSize {
			current.end = p.end
			continue
		}
		emit(current)
		current = p
	}
	emit(current)
}

// splitSpan cuts s after each occurrence of sep, keeping the separator with
// the preceding part.
func splitSpan(content string, s span, sep string) []span {
	text := content[s.start:s.end]

	var parts []span
	from := 0
	for {
		i := strings.Index(text[from:], sep)
		if i < 0 {
			parts = append(parts, span{s.start + from, s.end})
			break
		}
		cut := from + i + len(sep)
		parts = append(parts, span{s.start + from, s.start + cut})
		from = cut
	}
	return parts
}

// window emits fixed-size windows over s with the configured overlap.
func (c *Chunker) window(s span, out *[]span) {
	step := c.maxChunkSize - c.overlap
	for start := s.start; start < s.end; start += step {
		end := start + c.maxChunkSize
		if end > s.end {
			end = s.end
		}
		*out = append(*out, span{start, end})
		if end == s.end {
			break
		}
	}
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
