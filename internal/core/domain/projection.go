package domain

import "time"

// ProjectionStatus is a projection's processing status.
// Transitions are strictly forward: Pending -> Processing -> Completed|Failed.
// A failed projection is retried by creating a new projection with a new id.
type ProjectionStatus string

// Projection statuses.
const (
	ProjectionStatusPending    ProjectionStatus = "pending"
	ProjectionStatusProcessing ProjectionStatus = "processing"
	ProjectionStatusCompleted  ProjectionStatus = "completed"
	ProjectionStatusFailed     ProjectionStatus = "failed"
)

// ProjectionType identifies what kind of materialisation a projection is.
type ProjectionType string

// Projection types.
const (
	ProjectionTypeEmbedding ProjectionType = "embedding"
)

// ProjectionResult records the outcome of a completed projection.
type ProjectionResult struct {
	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// Dimensions is the embedding vector size.
	Dimensions int

	// ChunkingStrategy is the chunker id used.
	ChunkingStrategy string

	// EmbeddingStrategy is the embedder id used.
	EmbeddingStrategy string

	// EmbeddingVersion is the embedder's integer version.
	EmbeddingVersion int
}

// SemanticProjection is the materialised result of embedding a specific unit
// version under a specific processing profile. It is created when processing
// is requested, mutated only by the projection engine, and never deleted.
type SemanticProjection struct {
	EventRecorder

	// ID is the unique identifier for the projection.
	ID string

	// SemanticUnitID links to the projected unit.
	SemanticUnitID string

	// SemanticUnitVersion is the unit version the projection was built from.
	SemanticUnitVersion int

	// Type is the projection kind.
	Type ProjectionType

	// ProcessingProfileID names the profile used.
	ProcessingProfileID string

	// Status is the current processing status.
	Status ProjectionStatus

	// Result holds the outcome once completed.
	Result ProjectionResult

	// Error holds the failure message once failed.
	Error string

	// CreatedAt is when processing was requested.
	CreatedAt time.Time

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}

// NewSemanticProjection creates a Pending projection.
func NewSemanticProjection(id, unitID string, unitVersion int, projectionType ProjectionType, profileID string) (*SemanticProjection, error) {
	if id == "" || unitID == "" || profileID == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now().UTC()
	return &SemanticProjection{
		ID:                  id,
		SemanticUnitID:      unitID,
		SemanticUnitVersion: unitVersion,
		Type:                projectionType,
		ProcessingProfileID: profileID,
		Status:              ProjectionStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// Start transitions Pending -> Processing.
func (p *SemanticProjection) Start() error {
	if p.Status != ProjectionStatusPending {
		return ErrInvalidTransition
	}
	p.Status = ProjectionStatusProcessing
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete transitions Processing -> Completed, recording the result.
func (p *SemanticProjection) Complete(result ProjectionResult) error {
	if p.Status != ProjectionStatusProcessing {
		return ErrInvalidTransition
	}
	p.Status = ProjectionStatusCompleted
	p.Result = result
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail transitions Processing -> Failed with the error message. Failed is
// terminal; retrying requires a new projection with a new id.
func (p *SemanticProjection) Fail(message string) error {
	if p.Status != ProjectionStatusProcessing {
		return ErrInvalidTransition
	}
	p.Status = ProjectionStatusFailed
	p.Error = message
	p.UpdatedAt = time.Now().UTC()
	return nil
}
