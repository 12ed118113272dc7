package driving

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// RegisterTransformationInput describes a transformation to record.
type RegisterTransformationInput struct {
	SemanticUnitID string
	Type           domain.TransformationType
	StrategyUsed   string
	InputVersion   int
	OutputVersion  int
	Parameters     map[string]any
}

// LineageService records and serves transformation history.
// Recording is pure bookkeeping: it is always the last step of a use case,
// after the state-changing step has committed, and it never fails the
// operation it documents.
type LineageService interface {
	// RegisterTransformation appends a transformation, lazily creating the
	// unit's lineage record.
	RegisterTransformation(ctx context.Context, input RegisterTransformationInput) error

	// AddTrace records a relationship between two units.
	AddTrace(ctx context.Context, fromUnitID, toUnitID, relationship string) error

	// Get returns a unit's lineage.
	Get(ctx context.Context, unitID string) (*domain.KnowledgeLineage, error)
}
