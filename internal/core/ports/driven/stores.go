package driven

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// SourceStore persists Source aggregates.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source *domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all registered sources.
	List(ctx context.Context) ([]domain.Source, error)

	// ListByType returns sources of the given type.
	ListByType(ctx context.Context, sourceType domain.SourceType) ([]domain.Source, error)
}

// SemanticUnitStore persists SemanticUnit aggregates.
type SemanticUnitStore interface {
	// Save stores or updates a unit.
	Save(ctx context.Context, unit *domain.SemanticUnit) error

	// Get retrieves a unit by ID.
	Get(ctx context.Context, id string) (*domain.SemanticUnit, error)

	// List returns all units.
	List(ctx context.Context) ([]domain.SemanticUnit, error)

	// ListBySourceID returns units with a contributing source.
	ListBySourceID(ctx context.Context, sourceID string) ([]domain.SemanticUnit, error)
}

// ProfileStore persists ProcessingProfile aggregates.
type ProfileStore interface {
	// Save stores or updates a profile.
	Save(ctx context.Context, profile *domain.ProcessingProfile) error

	// Get retrieves a profile by ID.
	Get(ctx context.Context, id string) (*domain.ProcessingProfile, error)

	// List returns all profiles.
	List(ctx context.Context) ([]domain.ProcessingProfile, error)
}

// ProjectionStore persists SemanticProjection records.
type ProjectionStore interface {
	// Save stores or updates a projection.
	Save(ctx context.Context, projection *domain.SemanticProjection) error

	// Get retrieves a projection by ID.
	Get(ctx context.Context, id string) (*domain.SemanticProjection, error)

	// ListBySemanticUnitID returns all projections for a unit.
	ListBySemanticUnitID(ctx context.Context, unitID string) ([]domain.SemanticProjection, error)
}

// LineageStore persists KnowledgeLineage records.
type LineageStore interface {
	// Save stores or updates a lineage record.
	Save(ctx context.Context, lineage *domain.KnowledgeLineage) error

	// Get retrieves the lineage for a unit. Returns domain.ErrNotFound when
	// no transformations have been recorded yet.
	Get(ctx context.Context, unitID string) (*domain.KnowledgeLineage, error)
}
