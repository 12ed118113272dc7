package domain

import (
	"strings"
	"time"
)

// SourceType identifies the kind of external content a source points at.
type SourceType string

// Known source types.
const (
	SourceTypePlainText SourceType = "plain-text"
	SourceTypeMarkdown  SourceType = "markdown"
	SourceTypePDF       SourceType = "pdf"
	SourceTypeCSV       SourceType = "csv"
	SourceTypeJSON      SourceType = "json"
	SourceTypeWeb       SourceType = "web"
	SourceTypeAPI       SourceType = "api"
)

// SourceVersion is one entry in a source's content-hash version chain.
// A new version is appended only when the extracted content hash differs
// from the immediately preceding version.
type SourceVersion struct {
	// Version is the 1-based, contiguous version number.
	Version int

	// ContentHash is the digest of the extracted text.
	ContentHash string

	// ExtractedAt is when the extraction ran.
	ExtractedAt time.Time
}

// Source is a named reference to external content. It is created on
// registration and mutated only via RecordExtraction. The pipeline never
// deletes sources.
type Source struct {
	EventRecorder

	// ID is the unique identifier for the source.
	ID string

	// Name is the human-readable name.
	Name string

	// Type identifies the content kind (plain-text, markdown, pdf, ...).
	Type SourceType

	// URI is the content location (file path, URL, etc).
	URI string

	// Versions is the content-hash version chain, oldest first.
	Versions []SourceVersion

	// CreatedAt is when the source was registered.
	CreatedAt time.Time

	// UpdatedAt is when the source was last modified.
	UpdatedAt time.Time
}

// NewSource registers a source. The name must be non-empty.
func NewSource(id, name string, sourceType SourceType, uri string) (*Source, error) {
	if id == "" || strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now().UTC()
	s := &Source{
		ID:        id,
		Name:      name,
		Type:      sourceType,
		URI:       uri,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Record(NewSourceRegistered(id, name, sourceType))
	return s, nil
}

// CurrentVersion returns the latest source version, or nil before the
// first extraction.
func (s *Source) CurrentVersion() *SourceVersion {
	if len(s.Versions) == 0 {
		return nil
	}
	return &s.Versions[len(s.Versions)-1]
}

// RecordExtraction appends a new version when contentHash differs from the
// current version's hash. It returns false, and leaves the chain untouched,
// when the hash is unchanged.
func (s *Source) RecordExtraction(contentHash string) (bool, error) {
	if contentHash == "" {
		return false, ErrInvalidInput
	}

	if current := s.CurrentVersion(); current != nil && current.ContentHash == contentHash {
		return false, nil
	}

	version := SourceVersion{
		Version:     len(s.Versions) + 1,
		ContentHash: contentHash,
		ExtractedAt: time.Now().UTC(),
	}
	s.Versions = append(s.Versions, version)
	s.UpdatedAt = version.ExtractedAt
	s.Record(NewSourceExtracted(s.ID, version.Version, contentHash))
	return true, nil
}
