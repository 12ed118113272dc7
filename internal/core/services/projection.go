package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// Ensure ProjectionService implements the interface.
var _ driving.ProjectionService = (*ProjectionService)(nil)

// ProjectionService orchestrates chunking, embedding and vector storage.
type ProjectionService struct {
	projections driven.ProjectionStore
	units       driven.SemanticUnitStore
	profiles    driven.ProfileStore
	vectors     driven.VectorStore
	chunkers    ChunkerRegistry
	embedders   EmbedderRegistry
	publisher   driven.EventPublisher
	unitLocks   *keyedMutex
}

// NewProjectionService creates a projection service.
func NewProjectionService(
	projections driven.ProjectionStore,
	units driven.SemanticUnitStore,
	profiles driven.ProfileStore,
	vectors driven.VectorStore,
	chunkers ChunkerRegistry,
	embedders EmbedderRegistry,
	publisher driven.EventPublisher,
) *ProjectionService {
	return &ProjectionService{
		projections: projections,
		units:       units,
		profiles:    profiles,
		vectors:     vectors,
		chunkers:    chunkers,
		embedders:   embedders,
		publisher:   publisher,
		unitLocks:   newKeyedMutex(),
	}
}

// Generate runs the projection state machine for one unit version.
// Validation failures before the projection record exists return an error;
// once processing has started, failures are captured on the record and the
// projection comes back with a failed status instead.
func (s *ProjectionService) Generate(ctx context.Context, input driving.GenerateProjectionInput) (*domain.SemanticProjection, error) {
	unit, err := s.units.Get(ctx, input.SemanticUnitID)
	if err != nil {
		return nil, fmt.Errorf("resolving unit %s: %w", input.SemanticUnitID, err)
	}
	if unit.State == domain.UnitStateArchived {
		return nil, fmt.Errorf("unit %s: %w", unit.ID, domain.ErrUnitArchived)
	}

	unitVersion := input.SemanticUnitVersion
	if unitVersion == 0 {
		unitVersion = unit.CurrentVersionNumber()
	}
	if unitVersion == 0 {
		return nil, fmt.Errorf("unit %s has no versions: %w", unit.ID, domain.ErrInvalidInput)
	}

	profile, err := s.profiles.Get(ctx, input.ProcessingProfileID)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %s: %w", input.ProcessingProfileID, err)
	}
	if !profile.Active {
		return nil, fmt.Errorf("profile %s: %w", profile.ID, domain.ErrProfileDeprecated)
	}

	projectionType := input.Type
	if projectionType == "" {
		projectionType = domain.ProjectionTypeEmbedding
	}

	id := input.ProjectionID
	if id == "" {
		id = uuid.NewString()
	}

	projection, err := domain.NewSemanticProjection(id, unit.ID, unitVersion, projectionType, profile.ID)
	if err != nil {
		return nil, err
	}
	if err := s.projections.Save(ctx, projection); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}

	if err := projection.Start(); err != nil {
		return nil, err
	}
	if err := s.projections.Save(ctx, projection); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}

	content := input.Content
	if content == "" {
		content = unit.Content()
	}

	result, procErr := s.process(ctx, projection, unit, profile, content)
	if procErr != nil {
		return s.fail(ctx, projection, procErr)
	}

	if err := projection.Complete(*result); err != nil {
		return nil, err
	}
	projection.Record(domain.NewProjectionGenerated(projection, profile.Version, profile.ChunkingStrategy, profile.EmbeddingStrategy))

	if err := s.projections.Save(ctx, projection); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}

	// Attach the projection to the version's source snapshots so the unit's
	// manifest can show what was built from which content.
	for _, src := range unit.Sources {
		unit.AttachProjection(unitVersion, src.SourceID, projection.ID)
	}
	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving semantic unit: %w", err)
	}

	logger.Debug("projection %s completed: %d chunks, %d dims", projection.ID, result.ChunkCount, result.Dimensions)
	s.publisher.PublishAll(projection.DrainEvents())
	return projection, nil
}

// process chunks and embeds content and swaps the unit's vector entries.
func (s *ProjectionService) process(
	ctx context.Context,
	projection *domain.SemanticProjection,
	unit *domain.SemanticUnit,
	profile *domain.ProcessingProfile,
	content string,
) (*domain.ProjectionResult, error) {
	chunker, err := s.chunkers.Build(profile.ChunkingStrategy, profile.Config)
	if err != nil {
		return nil, fmt.Errorf("building chunker: %w", err)
	}

	embedder, err := s.embedders.Build(profile.EmbeddingStrategy, profile.Config)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}

	chunks, err := chunker.Chunk(content)
	if err != nil {
		return nil, fmt.Errorf("chunking: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks: %w", len(vectors), len(chunks), domain.ErrDimensionMismatch)
	}

	entries := make([]domain.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		metadata := make(map[string]any, len(chunk.Metadata)+3)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata["semantic_unit_id"] = unit.ID
		metadata["unit_version"] = projection.SemanticUnitVersion
		metadata["projection_id"] = projection.ID

		entries[i] = domain.VectorEntry{
			ID:             domain.VectorEntryID(unit.ID, projection.SemanticUnitVersion, chunk.Index),
			SemanticUnitID: unit.ID,
			Vector:         vectors[i],
			Content:        chunk.Content,
			Metadata:       metadata,
		}
	}

	// Replace the unit's entries atomically with respect to other
	// projections of the same unit. Searches between delete and upsert see
	// a partial view, which queries tolerate; interleaved writes would not.
	unlock := s.unitLocks.Lock(unit.ID)
	defer unlock()

	if err := s.vectors.DeleteBySemanticUnitID(ctx, unit.ID); err != nil {
		return nil, fmt.Errorf("clearing stale vectors: %w", err)
	}
	if err := s.vectors.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("storing vectors: %w", err)
	}

	return &domain.ProjectionResult{
		ChunkCount:        len(chunks),
		Dimensions:        embedder.Dimensions(),
		ChunkingStrategy:  profile.ChunkingStrategy,
		EmbeddingStrategy: profile.EmbeddingStrategy,
		EmbeddingVersion:  embedder.Version(),
	}, nil
}

// fail marks the projection failed and persists it. The processing error is
// captured on the record, not returned.
func (s *ProjectionService) fail(ctx context.Context, projection *domain.SemanticProjection, procErr error) (*domain.SemanticProjection, error) {
	logger.Warn("projection %s failed: %v", projection.ID, procErr)

	if err := projection.Fail(procErr.Error()); err != nil {
		return nil, err
	}
	projection.Record(domain.NewProjectionFailed(projection))

	if err := s.projections.Save(ctx, projection); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}
	s.publisher.PublishAll(projection.DrainEvents())
	return projection, nil
}

// BatchGenerate runs projections concurrently, one result per input.
func (s *ProjectionService) BatchGenerate(ctx context.Context, inputs []driving.GenerateProjectionInput) []driving.BatchProjectionResult {
	results := make([]driving.BatchProjectionResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			projection, err := s.Generate(ctx, input)
			results[i] = driving.BatchProjectionResult{Index: i, Projection: projection, Err: err}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-item errors are collected in results

	return results
}

// Get retrieves a projection by ID.
func (s *ProjectionService) Get(ctx context.Context, id string) (*domain.SemanticProjection, error) {
	return s.projections.Get(ctx, id)
}

// ListByUnit returns all projections for a unit.
func (s *ProjectionService) ListByUnit(ctx context.Context, unitID string) ([]domain.SemanticProjection, error) {
	return s.projections.ListBySemanticUnitID(ctx, unitID)
}
