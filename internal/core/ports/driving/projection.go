package driving

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// GenerateProjectionInput describes a projection to generate.
type GenerateProjectionInput struct {
	// ProjectionID is optional; a uuid is generated when empty.
	ProjectionID string

	// SemanticUnitID is the unit to project. Required.
	SemanticUnitID string

	// SemanticUnitVersion is the unit version being projected. When zero,
	// the unit's current version number is used.
	SemanticUnitVersion int

	// Content is the text to chunk and embed. When empty the unit's
	// concatenated source content is used.
	Content string

	// Type is the projection kind. Defaults to embedding.
	Type domain.ProjectionType

	// ProcessingProfileID names the profile to process with. Required; the
	// profile must be active.
	ProcessingProfileID string
}

// BatchProjectionResult is the per-item outcome of a batch generate.
type BatchProjectionResult struct {
	// Index is the input item's position.
	Index int

	// Projection is the persisted projection record. Its status may be
	// failed: processing failures are captured, not thrown.
	Projection *domain.SemanticProjection

	// Err is set only when the projection record itself could not be
	// created or persisted.
	Err error
}

// ProjectionService orchestrates chunking, embedding and vector storage.
type ProjectionService interface {
	// Generate runs the projection state machine for one unit version.
	// Processing failures are recovered locally: the returned projection
	// carries a failed status and error message instead of an error return.
	Generate(ctx context.Context, input GenerateProjectionInput) (*domain.SemanticProjection, error)

	// BatchGenerate runs projections concurrently, one result per input.
	BatchGenerate(ctx context.Context, inputs []GenerateProjectionInput) []BatchProjectionResult

	// Get retrieves a projection by ID.
	Get(ctx context.Context, id string) (*domain.SemanticProjection, error)

	// ListByUnit returns all projections for a unit.
	ListByUnit(ctx context.Context, unitID string) ([]domain.SemanticProjection, error)
}
