package domain

import "time"

// TransformationType identifies what kind of processing a transformation was.
type TransformationType string

// Transformation types.
const (
	TransformationExtraction TransformationType = "extraction"
	TransformationChunking   TransformationType = "chunking"
	TransformationEmbedding  TransformationType = "embedding"
	TransformationMerge      TransformationType = "merge"
	TransformationSplit      TransformationType = "split"
)

// Transformation is an append-only fact recording which processing step
// produced which unit version. Purely additive; never mutated.
type Transformation struct {
	// Type is the transformation kind.
	Type TransformationType

	// StrategyUsed names the strategy that performed the transformation.
	StrategyUsed string

	// InputVersion is the unit version the transformation read.
	InputVersion int

	// OutputVersion is the unit version the transformation produced.
	OutputVersion int

	// AppliedAt is when the transformation ran.
	AppliedAt time.Time

	// Parameters holds strategy parameters for auditability.
	Parameters map[string]any
}

// Trace is an append-only relationship between two units (e.g. derived-from).
type Trace struct {
	// FromUnitID is the origin unit.
	FromUnitID string

	// ToUnitID is the related unit.
	ToUnitID string

	// Relationship names the relation (e.g. "derived-from", "merged-into").
	Relationship string

	// CreatedAt is when the trace was recorded.
	CreatedAt time.Time
}

// KnowledgeLineage is the append-only transformation history for one unit.
// It is bookkeeping only: recording lineage never blocks or fails the
// operation it documents.
type KnowledgeLineage struct {
	// SemanticUnitID is the unit this lineage belongs to.
	SemanticUnitID string

	// Transformations is the history, oldest first.
	Transformations []Transformation

	// Traces are relationships to other units.
	Traces []Trace

	// CreatedAt is when the lineage record was lazily created.
	CreatedAt time.Time
}

// NewKnowledgeLineage creates an empty lineage record for a unit.
func NewKnowledgeLineage(unitID string) *KnowledgeLineage {
	return &KnowledgeLineage{
		SemanticUnitID: unitID,
		CreatedAt:      time.Now().UTC(),
	}
}

// Append adds a transformation to the history.
func (l *KnowledgeLineage) Append(t Transformation) {
	if t.AppliedAt.IsZero() {
		t.AppliedAt = time.Now().UTC()
	}
	l.Transformations = append(l.Transformations, t)
}

// AddTrace records a relationship to another unit.
func (l *KnowledgeLineage) AddTrace(toUnitID, relationship string) {
	l.Traces = append(l.Traces, Trace{
		FromUnitID:   l.SemanticUnitID,
		ToUnitID:     toUnitID,
		Relationship: relationship,
		CreatedAt:    time.Now().UTC(),
	})
}
