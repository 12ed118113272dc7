// Package csv provides the extractor for CSV content.
package csv

import (
	"context"
	"crypto/sha256"
	stdcsv "encoding/csv"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Extractor flattens CSV records into "header: value" lines, one line per
// cell and one paragraph per record, so downstream chunkers see natural
// boundaries.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/csv"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract parses the CSV and flattens it to text.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawContent) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader := stdcsv.NewReader(strings.NewReader(string(raw.Data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	var header []string
	var b strings.Builder
	rows := 0
	for i, record := range records {
		if i == 0 {
			header = record
			continue
		}
		if rows > 0 {
			b.WriteString("\n\n")
		}
		for j, field := range record {
			if j > 0 {
				b.WriteString("\n")
			}
			if j < len(header) {
				b.WriteString(header[j])
				b.WriteString(": ")
			}
			b.WriteString(field)
		}
		rows++
	}

	text := b.String()
	sum := sha256.Sum256([]byte(text))

	return &driven.ExtractResult{
		Text:        text,
		ContentHash: hex.EncodeToString(sum[:]),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"uri":       raw.URI,
			"format":    "csv",
			"rows":      rows,
			"columns":   len(header),
		},
	}, nil
}
