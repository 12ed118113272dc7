package driving

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// ProfileInput describes a processing profile to register or update.
type ProfileInput struct {
	// ID is optional on register; a uuid is generated when empty.
	ID string

	// Name is the human-readable name. Required on register.
	Name string

	// ChunkingStrategy is the registered chunker id. Required.
	ChunkingStrategy string

	// EmbeddingStrategy is the registered embedder id. Required.
	EmbeddingStrategy string

	// Config holds strategy-specific settings.
	Config map[string]any
}

// ProfileService manages processing profiles.
type ProfileService interface {
	// Register creates a new profile at version 1. The strategy ids must be
	// known to the chunker and embedder registries.
	Register(ctx context.Context, input ProfileInput) (*domain.ProcessingProfile, error)

	// Get retrieves a profile by ID.
	Get(ctx context.Context, id string) (*domain.ProcessingProfile, error)

	// List returns all profiles.
	List(ctx context.Context) ([]domain.ProcessingProfile, error)

	// Update replaces the strategy pairing and config, bumping the version.
	Update(ctx context.Context, input ProfileInput) (*domain.ProcessingProfile, error)

	// Deprecate deactivates the profile. Existing projections stay valid.
	Deprecate(ctx context.Context, id string) error
}
