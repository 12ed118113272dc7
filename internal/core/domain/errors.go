package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a lifecycle state machine violation.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnsupportedType indicates an unknown extractor, chunker or embedder type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrProfileDeprecated indicates a deprecated processing profile was
	// requested for a new projection. Existing projections stay valid.
	ErrProfileDeprecated = errors.New("processing profile deprecated")

	// ErrUnitArchived indicates an operation was requested on an archived
	// semantic unit. Archived is a terminal state.
	ErrUnitArchived = errors.New("semantic unit archived")

	// ErrDimensionMismatch indicates vectors of different lengths were
	// combined, usually a chunk/query embedding strategy mismatch.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
