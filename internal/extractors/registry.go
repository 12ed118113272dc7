// Package extractors provides content extraction implementations and the
// MIME-type registry that dispatches to them.
package extractors

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects the appropriate extractor for a raw document's MIME
// type. When several extractors support the same type, the highest
// priority wins.
type Registry struct {
	extractors []driven.ContentExtractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor driven.ContentExtractor) {
	r.extractors = append(r.extractors, extractor)
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() > r.extractors[j].Priority()
	})
}

// Extract dispatches to the highest-priority extractor for the MIME type.
func (r *Registry) Extract(ctx context.Context, raw *driven.RawContent) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	for _, extractor := range r.extractors {
		if supportsMIME(extractor, raw.MIMEType) {
			return extractor.Extract(ctx, raw)
		}
	}
	return nil, fmt.Errorf("%w: no extractor for MIME type %q", domain.ErrUnsupportedType, raw.MIMEType)
}

// SupportedMIMETypes returns all MIME types that can be extracted.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, extractor := range r.extractors {
		for _, mt := range extractor.SupportedMIMETypes() {
			if _, ok := seen[mt]; ok {
				continue
			}
			seen[mt] = struct{}{}
			types = append(types, mt)
		}
	}
	sort.Strings(types)
	return types
}

func supportsMIME(extractor driven.ContentExtractor, mimeType string) bool {
	for _, mt := range extractor.SupportedMIMETypes() {
		if mt == mimeType {
			return true
		}
	}
	return false
}
