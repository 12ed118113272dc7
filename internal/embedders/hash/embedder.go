// Package hash provides a deterministic embedding strategy with no external
// dependencies. The same input and dimension always yield the same unit
// vector, which makes projections reproducible and lets the indexing and
// query paths share a vector space without any model.
package hash

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingStrategy = (*Embedder)(nil)

// StrategyID is the registered embedder id.
const StrategyID = "hash"

// Version is stamped onto projections; bump it if the algorithm changes.
const Version = 1

// DefaultDimensions is the default embedding vector size.
const DefaultDimensions = 128

// Embedder accumulates sin(code(i) * (i+1)) * 0.5 into vector[i mod d] for
// each character, then L2-normalises the result. Normalisation is skipped
// when the magnitude is zero (empty input).
type Embedder struct {
	dimensions int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimensions sets the embedding vector size.
func WithDimensions(d int) Option {
	return func(e *Embedder) { e.dimensions = d }
}

// New creates a hash embedder. Dimensions must be positive.
func New(opts ...Option) (*Embedder, error) {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	if e.dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, e.dimensions)
	}
	return e, nil
}

// StrategyID returns the registered embedder id.
func (e *Embedder) StrategyID() string {
	return StrategyID
}

// Version returns the algorithm version.
func (e *Embedder) Version() int {
	return Version
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Embed generates the deterministic embedding for text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	acc := make([]float64, e.dimensions)

	i := 0
	for _, r := range text {
		acc[i%e.dimensions] += math.Sin(float64(r)*float64(i+1)) * 0.5
		i++
	}

	var magnitude float64
	for _, v := range acc {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)

	vector := make([]float32, e.dimensions)
	for j, v := range acc {
		if magnitude > 0 {
			vector[j] = float32(v / magnitude)
		}
	}
	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}
