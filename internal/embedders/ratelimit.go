package embedders

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingStrategy = (*RateLimited)(nil)

// RateLimited wraps an embedding strategy with a token-bucket rate limiter.
// External embedding APIs throttle aggressively during batch projection;
// the wrapper blocks until the limiter grants a slot or the context is
// cancelled. The deterministic hash embedder never needs it.
type RateLimited struct {
	inner   driven.EmbeddingStrategy
	limiter *rate.Limiter
}

// NewRateLimited wraps inner, allowing requestsPerSecond sustained calls
// with the given burst.
func NewRateLimited(inner driven.EmbeddingStrategy, requestsPerSecond float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// StrategyID returns the wrapped strategy's id.
func (r *RateLimited) StrategyID() string {
	return r.inner.StrategyID()
}

// Version returns the wrapped strategy's version.
func (r *RateLimited) Version() int {
	return r.inner.Version()
}

// Dimensions returns the wrapped strategy's vector size.
func (r *RateLimited) Dimensions() int {
	return r.inner.Dimensions()
}

// Embed waits for the limiter, then delegates.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}

// EmbedBatch waits for one limiter slot per batch, then delegates.
// A batch counts as a single upstream request.
func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.EmbedBatch(ctx, texts)
}
