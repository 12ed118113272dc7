package chunkers

import (
	"github.com/custodia-labs/semantica/internal/chunkers/fixed"
	"github.com/custodia-labs/semantica/internal/chunkers/recursive"
	"github.com/custodia-labs/semantica/internal/chunkers/sentence"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in chunking strategies.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(fixed.StrategyID, buildFixed)
	r.Register(sentence.StrategyID, buildSentence)
	r.Register(recursive.StrategyID, buildRecursive)
}

// buildFixed creates a fixed-size chunker from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildFixed(cfg map[string]any) (driven.ChunkingStrategy, error) {
	var opts []fixed.Option
	if size := getIntFromConfig(cfg, "chunk_size"); size != 0 {
		opts = append(opts, fixed.WithChunkSize(size))
	}
	if overlap, ok := lookupInt(cfg, "overlap"); ok {
		opts = append(opts, fixed.WithOverlap(overlap))
	}
	return fixed.New(opts...)
}

// buildSentence creates a sentence chunker from generic config.
// Supported config keys:
//   - max_chunk_size (int): Upper bound in characters (default: 1000)
//   - min_chunk_size (int): Lower bound in characters (default: 100)
func buildSentence(cfg map[string]any) (driven.ChunkingStrategy, error) {
	var opts []sentence.Option
	if size := getIntFromConfig(cfg, "max_chunk_size"); size != 0 {
		opts = append(opts, sentence.WithMaxChunkSize(size))
	}
	if size, ok := lookupInt(cfg, "min_chunk_size"); ok {
		opts = append(opts, sentence.WithMinChunkSize(size))
	}
	return sentence.New(opts...)
}

// buildRecursive creates a recursive chunker from generic config.
// Supported config keys:
//   - max_chunk_size (int): Upper bound in characters (default: 1000)
//   - overlap (int): Overlap for the windowing fallback (default: 200)
func buildRecursive(cfg map[string]any) (driven.ChunkingStrategy, error) {
	var opts []recursive.Option
	if size := getIntFromConfig(cfg, "max_chunk_size"); size != 0 {
		opts = append(opts, recursive.WithMaxChunkSize(size))
	}
	if overlap, ok := lookupInt(cfg, "overlap"); ok {
		opts = append(opts, recursive.WithOverlap(overlap))
	}
	return recursive.New(opts...)
}

// getIntFromConfig safely extracts an int from generic config.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	v, _ := lookupInt(cfg, key)
	return v
}

// lookupInt extracts an int and reports whether the key was present.
func lookupInt(cfg map[string]any, key string) (int, bool) {
	if cfg == nil {
		return 0, false
	}
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
