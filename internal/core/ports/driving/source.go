package driving

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// RegisterSourceInput describes a source to register.
type RegisterSourceInput struct {
	// ID is optional; a uuid is generated when empty.
	ID string

	// Name is the human-readable name. Required.
	Name string

	// Type identifies the content kind.
	Type domain.SourceType

	// URI is the content location.
	URI string
}

// ExtractionOutcome reports the result of running extraction for a source.
type ExtractionOutcome struct {
	// SourceID is the extracted source.
	SourceID string

	// Changed is true when the extraction produced a new source version.
	Changed bool

	// Version is the current version number after extraction.
	Version int

	// ContentHash is the extracted content's hash.
	ContentHash string

	// Text is the extracted text.
	Text string
}

// BatchSourceResult is the per-item outcome of a batch source operation.
// One item's failure never aborts its siblings; the slice returned by a
// batch call always has one entry per input item.
type BatchSourceResult struct {
	// Index is the input item's position.
	Index int

	// SourceID is set on success.
	SourceID string

	// Err is set on failure.
	Err error
}

// SourceService manages source registration and extraction.
type SourceService interface {
	// Register creates a new source.
	Register(ctx context.Context, input RegisterSourceInput) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all registered sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Extract runs content extraction for a source over the given raw bytes
	// and records a new version when the content hash changed.
	Extract(ctx context.Context, sourceID string, data []byte, mimeType string) (*ExtractionOutcome, error)

	// ExtractFromURI reads the source's file URI and runs Extract.
	ExtractFromURI(ctx context.Context, sourceID string) (*ExtractionOutcome, error)

	// BatchRegister registers sources concurrently, collecting per-item
	// success or failure.
	BatchRegister(ctx context.Context, inputs []RegisterSourceInput) []BatchSourceResult

	// BatchIngestAndExtract registers sources and immediately extracts the
	// given content for each, concurrently.
	BatchIngestAndExtract(ctx context.Context, items []IngestItem) []BatchSourceResult
}

// IngestItem pairs a source registration with its initial content.
type IngestItem struct {
	Input    RegisterSourceInput
	Data     []byte
	MIMEType string
}
