// Package plaintext provides the fallback extractor for textual content.
package plaintext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Extractor handles plain text content.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/html",
		"text/yaml",
		"text/toml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract passes the bytes through as text. The content hash is a SHA-256
// digest of the text, so identical text always hashes identically.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawContent) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(raw.Data)
	sum := sha256.Sum256([]byte(text))

	return &driven.ExtractResult{
		Text:        text,
		ContentHash: hex.EncodeToString(sum[:]),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"uri":       raw.URI,
		},
	}, nil
}
