package driven

import "context"

// RawContent is opaque bytes handed to an extractor.
type RawContent struct {
	// URI is the content location, used for titles and diagnostics.
	URI string

	// MIMEType is the content type (e.g. "text/markdown").
	MIMEType string

	// Data is the raw bytes.
	Data []byte
}

// ExtractResult is the output of content extraction.
type ExtractResult struct {
	// Text is the extracted plain text.
	Text string

	// ContentHash is a deterministic digest of Text: identical text always
	// yields an identical hash.
	ContentHash string

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any
}

// ContentExtractor turns raw content into text, hash and metadata.
// Each extractor handles specific MIME types and is a pure function of the
// input bytes.
type ContentExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89; fallback extractors 1-9.
	Priority() int

	// Extract transforms raw content into an extraction result.
	Extract(ctx context.Context, raw *RawContent) (*ExtractResult, error)
}

// ExtractorRegistry selects the appropriate extractor for a MIME type.
type ExtractorRegistry interface {
	// Extract dispatches to the highest-priority extractor for the MIME type.
	Extract(ctx context.Context, raw *RawContent) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(extractor ContentExtractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
