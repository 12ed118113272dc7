package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// Ensure UnitService implements the interface.
var _ driving.UnitService = (*UnitService)(nil)

// UnitService manages the semantic unit lifecycle.
type UnitService struct {
	units       driven.SemanticUnitStore
	sources     driven.SourceStore
	projections driven.ProjectionStore
	profiles    driven.ProfileStore
	extractors  driven.ExtractorRegistry
	publisher   driven.EventPublisher
}

// NewUnitService creates a unit service.
func NewUnitService(
	units driven.SemanticUnitStore,
	sources driven.SourceStore,
	projections driven.ProjectionStore,
	profiles driven.ProfileStore,
	extractors driven.ExtractorRegistry,
	publisher driven.EventPublisher,
) *UnitService {
	return &UnitService{
		units:       units,
		sources:     sources,
		projections: projections,
		profiles:    profiles,
		extractors:  extractors,
		publisher:   publisher,
	}
}

// Create creates a Draft unit with one contributing source.
func (s *UnitService) Create(ctx context.Context, input driving.CreateUnitInput) (*domain.SemanticUnit, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := s.units.Get(ctx, id); err == nil {
		return nil, fmt.Errorf("semantic unit %q: %w", id, domain.ErrAlreadyExists)
	}

	unitSource, err := s.resolveUnitSource(ctx, input.SourceID, input.Content, input.ContentHash)
	if err != nil {
		return nil, err
	}

	unit, err := domain.NewSemanticUnit(id, input.Name, input.Description, input.Language, *unitSource)
	if err != nil {
		return nil, err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving semantic unit: %w", err)
	}

	logger.Debug("created semantic unit %s (%s)", unit.ID, unit.Name)
	s.publisher.PublishAll(unit.DrainEvents())
	return unit, nil
}

// Get retrieves a unit by ID.
func (s *UnitService) Get(ctx context.Context, id string) (*domain.SemanticUnit, error) {
	return s.units.Get(ctx, id)
}

// List returns all units.
func (s *UnitService) List(ctx context.Context) ([]domain.SemanticUnit, error) {
	return s.units.List(ctx)
}

// AddSource attaches another contributing source to the unit.
func (s *UnitService) AddSource(ctx context.Context, unitID, sourceID, content, contentHash string) error {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		return err
	}

	unitSource, err := s.resolveUnitSource(ctx, sourceID, content, contentHash)
	if err != nil {
		return err
	}

	if err := unit.AddSource(*unitSource); err != nil {
		return err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return fmt.Errorf("saving semantic unit: %w", err)
	}
	s.publisher.PublishAll(unit.DrainEvents())
	return nil
}

// Version appends a new unit version bound to the given profile when at
// least one contributing source's hash differs from the current version's
// snapshot. Returns nil when versioning was a no-op.
func (s *UnitService) Version(ctx context.Context, unitID, profileID, reason string) (*domain.UnitVersion, error) {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %s: %w", profileID, err)
	}
	if !profile.Active {
		return nil, fmt.Errorf("profile %s: %w", profileID, domain.ErrProfileDeprecated)
	}

	version, err := unit.NextVersion(profile.ID, profile.Version, reason)
	if err != nil {
		return nil, err
	}
	if version == nil {
		logger.Debug("unit %s unchanged, versioning skipped", unitID)
		return nil, nil
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving semantic unit: %w", err)
	}

	logger.Debug("unit %s versioned to %d", unitID, version.Version)
	s.publisher.PublishAll(unit.DrainEvents())
	return version, nil
}

// Activate transitions the unit to Active.
func (s *UnitService) Activate(ctx context.Context, unitID string) error {
	return s.transition(ctx, unitID, func(u *domain.SemanticUnit) error {
		return u.Activate()
	})
}

// Deprecate transitions the unit to Deprecated.
func (s *UnitService) Deprecate(ctx context.Context, unitID, reason string) error {
	return s.transition(ctx, unitID, func(u *domain.SemanticUnit) error {
		return u.Deprecate(reason)
	})
}

// Archive transitions the unit to the terminal Archived state.
func (s *UnitService) Archive(ctx context.Context, unitID, reason string) error {
	return s.transition(ctx, unitID, func(u *domain.SemanticUnit) error {
		return u.Archive(reason)
	})
}

// Reprocess records a reprocess-requested event without mutating state.
func (s *UnitService) Reprocess(ctx context.Context, unitID, reason string) error {
	return s.transition(ctx, unitID, func(u *domain.SemanticUnit) error {
		return u.RequestReprocess(reason)
	})
}

// Manifest returns the aggregated view of a unit for display.
func (s *UnitService) Manifest(ctx context.Context, unitID string) (*driving.UnitManifest, error) {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		return nil, err
	}

	manifest := &driving.UnitManifest{Unit: *unit}

	for _, unitSource := range unit.Sources {
		source, err := s.sources.Get(ctx, unitSource.SourceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		manifest.Sources = append(manifest.Sources, *source)
	}

	projections, err := s.projections.ListBySemanticUnitID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	manifest.Projections = projections

	return manifest, nil
}

// transition applies a state mutation, persists the unit and publishes the
// drained events.
func (s *UnitService) transition(ctx context.Context, unitID string, apply func(*domain.SemanticUnit) error) error {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		return err
	}

	if err := apply(unit); err != nil {
		return err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return fmt.Errorf("saving semantic unit: %w", err)
	}
	s.publisher.PublishAll(unit.DrainEvents())
	return nil
}

// resolveUnitSource validates the contributing source and materialises its
// content. Empty content falls back to re-extracting the source's file URI;
// an empty hash is computed from the content.
func (s *UnitService) resolveUnitSource(ctx context.Context, sourceID, content, contentHash string) (*domain.UnitSource, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("resolving source %s: %w", sourceID, err)
	}

	if content == "" {
		content, err = s.extractSourceContent(ctx, source)
		if err != nil {
			return nil, err
		}
		contentHash = ""
	}
	if contentHash == "" {
		contentHash = hashContent(content)
	}

	return &domain.UnitSource{
		SourceID:         source.ID,
		SourceType:       source.Type,
		ExtractedContent: content,
		ContentHash:      contentHash,
	}, nil
}

// extractSourceContent re-runs extraction over the source's file URI.
func (s *UnitService) extractSourceContent(ctx context.Context, source *domain.Source) (string, error) {
	path := FilePath(source.URI)
	if path == "" {
		return "", fmt.Errorf("source %s has no content and no readable file URI: %w", source.ID, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := s.extractors.Extract(ctx, &driven.RawContent{
		URI:      source.URI,
		MIMEType: defaultMIMEType(source.Type),
		Data:     data,
	})
	if err != nil {
		return "", fmt.Errorf("extracting source %s: %w", source.ID, err)
	}
	return result.Text, nil
}
