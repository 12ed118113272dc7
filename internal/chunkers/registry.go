// Package chunkers provides chunking strategy implementations and their
// builder registry.
package chunkers

import (
	"fmt"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// BuilderFunc creates a ChunkingStrategy from generic config.
// Config is a map of strategy-specific settings parsed from a processing
// profile's configuration.
type BuilderFunc func(cfg map[string]any) (driven.ChunkingStrategy, error)

// Registry maps chunker ids to their builders. It is constructed at startup
// and passed by reference into whatever materialises profiles; there is no
// package-level singleton.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty chunker registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder under the given id. The id should match the
// strategy's StrategyID() return value.
func (r *Registry) Register(id string, builder BuilderFunc) {
	r.builders[id] = builder
}

// Build creates a strategy by id with the given config.
func (r *Registry) Build(id string, cfg map[string]any) (driven.ChunkingStrategy, error) {
	builder, ok := r.builders[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chunker %q", domain.ErrUnsupportedType, id)
	}
	return builder(cfg)
}

// Has returns true if a builder with the given id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.builders[id]
	return ok
}

// IDs returns all registered chunker ids.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.builders))
	for id := range r.builders {
		ids = append(ids, id)
	}
	return ids
}
