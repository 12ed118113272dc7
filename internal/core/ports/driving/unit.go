package driving

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// CreateUnitInput describes a semantic unit to create from one source.
type CreateUnitInput struct {
	// ID is optional; a uuid is generated when empty.
	ID string

	// Name is the human-readable name. Required.
	Name string

	// Description explains what knowledge the unit captures.
	Description string

	// Language is the content language (e.g. "en").
	Language string

	// SourceID is the contributing source. Required; the source must exist
	// and have at least one extracted version.
	SourceID string

	// Content is the extracted content to attach. When empty the service
	// uses the text of the source's latest extraction if available.
	Content string

	// ContentHash is the digest of Content. Computed when empty.
	ContentHash string
}

// UnitManifest is the aggregated display view of a unit: its sources,
// version chain and projections.
type UnitManifest struct {
	Unit        domain.SemanticUnit
	Sources     []domain.Source
	Projections []domain.SemanticProjection
}

// UnitService manages the semantic unit lifecycle.
type UnitService interface {
	// Create creates a Draft unit with one contributing source.
	// Fails with domain.ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, input CreateUnitInput) (*domain.SemanticUnit, error)

	// Get retrieves a unit by ID.
	Get(ctx context.Context, id string) (*domain.SemanticUnit, error)

	// List returns all units.
	List(ctx context.Context) ([]domain.SemanticUnit, error)

	// AddSource attaches another contributing source to the unit.
	AddSource(ctx context.Context, unitID, sourceID, content, contentHash string) error

	// Version appends a new unit version bound to the given profile when at
	// least one contributing source's hash differs from the current
	// version's snapshot. Returns nil when versioning was a no-op.
	Version(ctx context.Context, unitID, profileID, reason string) (*domain.UnitVersion, error)

	// Activate transitions the unit to Active.
	Activate(ctx context.Context, unitID string) error

	// Deprecate transitions the unit to Deprecated.
	Deprecate(ctx context.Context, unitID, reason string) error

	// Archive transitions the unit to the terminal Archived state.
	Archive(ctx context.Context, unitID, reason string) error

	// Reprocess records a reprocess-requested event without mutating state.
	// Rejected when the unit is archived.
	Reprocess(ctx context.Context, unitID, reason string) error

	// Manifest returns the aggregated view of a unit for display.
	Manifest(ctx context.Context, unitID string) (*UnitManifest, error)
}
