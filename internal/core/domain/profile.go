package domain

import (
	"strings"
	"time"
)

// ProcessingProfile is a named, versioned pairing of a chunking-strategy id
// and an embedding-strategy id plus free-form configuration. A projection
// records the profile id and version it was built with, so results stay
// reproducible even after the profile changes.
type ProcessingProfile struct {
	EventRecorder

	// ID is the unique identifier for the profile.
	ID string

	// Name is the human-readable name.
	Name string

	// ChunkingStrategy is the registered chunker id (e.g. "recursive").
	ChunkingStrategy string

	// EmbeddingStrategy is the registered embedder id (e.g. "hash").
	EmbeddingStrategy string

	// Config holds strategy-specific settings (chunk_size, dimensions, ...).
	Config map[string]any

	// Version is incremented on every configuration update.
	Version int

	// Active is false once the profile is deprecated. A deprecated profile
	// may not be used for new projections; existing projections stay valid.
	Active bool

	// RegisteredAt is when the profile was registered.
	RegisteredAt time.Time

	// UpdatedAt is when the profile was last modified.
	UpdatedAt time.Time
}

// NewProcessingProfile registers a profile at version 1.
func NewProcessingProfile(id, name, chunkingStrategy, embeddingStrategy string, config map[string]any) (*ProcessingProfile, error) {
	if id == "" || strings.TrimSpace(name) == "" || chunkingStrategy == "" || embeddingStrategy == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &ProcessingProfile{
		ID:                id,
		Name:              name,
		ChunkingStrategy:  chunkingStrategy,
		EmbeddingStrategy: embeddingStrategy,
		Config:            config,
		Version:           1,
		Active:            true,
		RegisteredAt:      now,
		UpdatedAt:         now,
	}
	p.Record(NewProfileRegistered(id, name))
	return p, nil
}

// Update replaces the strategy pairing and configuration, bumping the
// version. Rejected once the profile is deprecated.
func (p *ProcessingProfile) Update(chunkingStrategy, embeddingStrategy string, config map[string]any) error {
	if !p.Active {
		return ErrProfileDeprecated
	}
	if chunkingStrategy == "" || embeddingStrategy == "" {
		return ErrInvalidInput
	}
	p.ChunkingStrategy = chunkingStrategy
	p.EmbeddingStrategy = embeddingStrategy
	p.Config = config
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Deprecate marks the profile inactive. Idempotent.
func (p *ProcessingProfile) Deprecate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
	p.Record(NewProfileDeprecated(p.ID))
}
