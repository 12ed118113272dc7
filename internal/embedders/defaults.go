package embedders

import (
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/embedders/hash"
)

// RegisterDefaults registers all built-in embedding strategies.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(hash.StrategyID, buildHash)
}

// buildHash creates a hash embedder from generic config.
// Supported config keys:
//   - dimensions (int): Embedding vector size (default: 128)
//   - requests_per_second (float): Throttle embedding calls (default: unlimited)
//   - burst (int): Burst size for the throttle (default: 1)
func buildHash(cfg map[string]any) (driven.EmbeddingStrategy, error) {
	var opts []hash.Option
	if d := getIntFromConfig(cfg, "dimensions"); d > 0 {
		opts = append(opts, hash.WithDimensions(d))
	}
	embedder, err := hash.New(opts...)
	if err != nil {
		return nil, err
	}
	return withRateLimit(embedder, cfg), nil
}

// withRateLimit wraps the strategy with a rate limiter when the profile
// config asks for one.
func withRateLimit(inner driven.EmbeddingStrategy, cfg map[string]any) driven.EmbeddingStrategy {
	rps := getFloatFromConfig(cfg, "requests_per_second")
	if rps <= 0 {
		return inner
	}
	burst := getIntFromConfig(cfg, "burst")
	if burst <= 0 {
		burst = 1
	}
	return NewRateLimited(inner, rps, burst)
}

// getFloatFromConfig safely extracts a float from generic config.
func getFloatFromConfig(cfg map[string]any, key string) float64 {
	if cfg == nil {
		return 0
	}
	val, ok := cfg[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// getIntFromConfig safely extracts an int from generic config.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	if cfg == nil {
		return 0
	}
	val, ok := cfg[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
