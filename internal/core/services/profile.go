package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService manages processing profiles.
type ProfileService struct {
	profiles  driven.ProfileStore
	chunkers  ChunkerRegistry
	embedders EmbedderRegistry
	publisher driven.EventPublisher
}

// NewProfileService creates a profile service.
func NewProfileService(profiles driven.ProfileStore, chunkers ChunkerRegistry, embedders EmbedderRegistry, publisher driven.EventPublisher) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		chunkers:  chunkers,
		embedders: embedders,
		publisher: publisher,
	}
}

// Register creates a new profile at version 1. The strategy ids must be
// known to the chunker and embedder registries.
func (s *ProfileService) Register(ctx context.Context, input driving.ProfileInput) (*domain.ProcessingProfile, error) {
	if err := s.validateStrategies(input); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := s.profiles.Get(ctx, id); err == nil {
		return nil, fmt.Errorf("profile %q: %w", id, domain.ErrAlreadyExists)
	}

	profile, err := domain.NewProcessingProfile(id, input.Name, input.ChunkingStrategy, input.EmbeddingStrategy, input.Config)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	logger.Debug("registered profile %s (%s/%s)", profile.ID, profile.ChunkingStrategy, profile.EmbeddingStrategy)
	s.publisher.PublishAll(profile.DrainEvents())
	return profile, nil
}

// Get retrieves a profile by ID.
func (s *ProfileService) Get(ctx context.Context, id string) (*domain.ProcessingProfile, error) {
	return s.profiles.Get(ctx, id)
}

// List returns all profiles.
func (s *ProfileService) List(ctx context.Context) ([]domain.ProcessingProfile, error) {
	return s.profiles.List(ctx)
}

// Update replaces the strategy pairing and config, bumping the version.
// Empty strategy ids keep the profile's current ones.
func (s *ProfileService) Update(ctx context.Context, input driving.ProfileInput) (*domain.ProcessingProfile, error) {
	if err := s.validateStrategies(input); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	chunking := input.ChunkingStrategy
	if chunking == "" {
		chunking = profile.ChunkingStrategy
	}
	embedding := input.EmbeddingStrategy
	if embedding == "" {
		embedding = profile.EmbeddingStrategy
	}

	if err := profile.Update(chunking, embedding, input.Config); err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	logger.Debug("updated profile %s to version %d", profile.ID, profile.Version)
	s.publisher.PublishAll(profile.DrainEvents())
	return profile, nil
}

// Deprecate deactivates the profile. Existing projections stay valid.
func (s *ProfileService) Deprecate(ctx context.Context, id string) error {
	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		return err
	}

	profile.Deprecate()

	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	s.publisher.PublishAll(profile.DrainEvents())
	return nil
}

// validateStrategies checks both strategy ids against the registries.
func (s *ProfileService) validateStrategies(input driving.ProfileInput) error {
	if input.ChunkingStrategy != "" && !s.chunkers.Has(input.ChunkingStrategy) {
		return fmt.Errorf("%w: unknown chunker %q", domain.ErrUnsupportedType, input.ChunkingStrategy)
	}
	if input.EmbeddingStrategy != "" && !s.embedders.Has(input.EmbeddingStrategy) {
		return fmt.Errorf("%w: unknown embedder %q", domain.ErrUnsupportedType, input.EmbeddingStrategy)
	}
	return nil
}
