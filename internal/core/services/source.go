package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// batchConcurrency bounds the number of concurrent items in batch operations.
const batchConcurrency = 8

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source registration and extraction.
type SourceService struct {
	sources    driven.SourceStore
	extractors driven.ExtractorRegistry
	publisher  driven.EventPublisher
}

// NewSourceService creates a source service.
func NewSourceService(sources driven.SourceStore, extractors driven.ExtractorRegistry, publisher driven.EventPublisher) *SourceService {
	return &SourceService{
		sources:    sources,
		extractors: extractors,
		publisher:  publisher,
	}
}

// Register creates a new source.
func (s *SourceService) Register(ctx context.Context, input driving.RegisterSourceInput) (*domain.Source, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := s.sources.Get(ctx, id); err == nil {
		return nil, fmt.Errorf("source %q: %w", id, domain.ErrAlreadyExists)
	}

	source, err := domain.NewSource(id, input.Name, input.Type, input.URI)
	if err != nil {
		return nil, err
	}

	if err := s.sources.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("saving source: %w", err)
	}

	logger.Debug("registered source %s (%s)", source.ID, source.Name)
	s.publisher.PublishAll(source.DrainEvents())
	return source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.sources.Get(ctx, id)
}

// List returns all registered sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sources.List(ctx)
}

// Extract runs content extraction for a source over the given raw bytes and
// records a new version when the content hash changed.
func (s *SourceService) Extract(ctx context.Context, sourceID string, data []byte, mimeType string) (*driving.ExtractionOutcome, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	if mimeType == "" {
		mimeType = defaultMIMEType(source.Type)
	}

	result, err := s.extractors.Extract(ctx, &driven.RawContent{
		URI:      source.URI,
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting source %s: %w", sourceID, err)
	}

	changed, err := source.RecordExtraction(result.ContentHash)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.sources.Save(ctx, source); err != nil {
			return nil, fmt.Errorf("saving source: %w", err)
		}
		s.publisher.PublishAll(source.DrainEvents())
	}

	version := 0
	if current := source.CurrentVersion(); current != nil {
		version = current.Version
	}

	logger.Debug("extracted source %s: changed=%t version=%d", sourceID, changed, version)
	return &driving.ExtractionOutcome{
		SourceID:    sourceID,
		Changed:     changed,
		Version:     version,
		ContentHash: result.ContentHash,
		Text:        result.Text,
	}, nil
}

// ExtractFromURI reads the source's file URI and runs Extract.
func (s *SourceService) ExtractFromURI(ctx context.Context, sourceID string) (*driving.ExtractionOutcome, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	path := FilePath(source.URI)
	if path == "" {
		return nil, fmt.Errorf("source %s has no readable file URI: %w", sourceID, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return s.Extract(ctx, sourceID, data, "")
}

// BatchRegister registers sources concurrently, collecting per-item success
// or failure. One item's failure never aborts its siblings.
func (s *SourceService) BatchRegister(ctx context.Context, inputs []driving.RegisterSourceInput) []driving.BatchSourceResult {
	results := make([]driving.BatchSourceResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			source, err := s.Register(ctx, input)
			results[i] = driving.BatchSourceResult{Index: i, Err: err}
			if err == nil {
				results[i].SourceID = source.ID
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-item errors are collected in results

	return results
}

// BatchIngestAndExtract registers sources and immediately extracts the given
// content for each, concurrently.
func (s *SourceService) BatchIngestAndExtract(ctx context.Context, items []driving.IngestItem) []driving.BatchSourceResult {
	results := make([]driving.BatchSourceResult, len(items))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			source, err := s.Register(ctx, item.Input)
			if err != nil {
				results[i] = driving.BatchSourceResult{Index: i, Err: err}
				return nil
			}
			_, err = s.Extract(ctx, source.ID, item.Data, item.MIMEType)
			results[i] = driving.BatchSourceResult{Index: i, SourceID: source.ID, Err: err}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-item errors are collected in results

	return results
}

// FilePath converts a file URI to a local path. Plain paths pass through;
// non-file schemes yield "".
func FilePath(uri string) string {
	switch {
	case strings.HasPrefix(uri, "file://"):
		return strings.TrimPrefix(uri, "file://")
	case strings.Contains(uri, "://"):
		return ""
	default:
		return uri
	}
}

// defaultMIMEType maps a source type to the MIME type used when the caller
// does not supply one.
func defaultMIMEType(sourceType domain.SourceType) string {
	switch sourceType {
	case domain.SourceTypeMarkdown:
		return "text/markdown"
	case domain.SourceTypePDF:
		return "application/pdf"
	case domain.SourceTypeCSV:
		return "text/csv"
	case domain.SourceTypeJSON, domain.SourceTypeAPI:
		return "application/json"
	case domain.SourceTypeWeb:
		return "text/html"
	default:
		return "text/plain"
	}
}
