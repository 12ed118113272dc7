// Package jsondoc provides the extractor for JSON content.
package jsondoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Extractor flattens JSON scalar leaves into "path: value" lines in sorted
// key order, so the same document always extracts to the same text.
type Extractor struct{}

// New creates a new JSON extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/json"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract parses the JSON and flattens it to text.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawContent) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var value any
	if err := json.Unmarshal(raw.Data, &value); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	var lines []string
	flatten("", value, &lines)

	text := strings.Join(lines, "\n")
	sum := sha256.Sum256([]byte(text))

	return &driven.ExtractResult{
		Text:        text,
		ContentHash: hex.EncodeToString(sum[:]),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"uri":       raw.URI,
			"format":    "json",
			"leaves":    len(lines),
		},
	}, nil
}

// flatten appends one "path: value" line per scalar leaf, descending maps
// in sorted key order.
func flatten(path string, value any, out *[]string) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(joinPath(path, k), v[k], out)
		}
	case []any:
		for i, item := range v {
			flatten(fmt.Sprintf("%s[%d]", path, i), item, out)
		}
	case nil:
		*out = append(*out, path+": null")
	default:
		*out = append(*out, fmt.Sprintf("%s: %v", path, v))
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
