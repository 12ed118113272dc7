package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semantica/internal/chunkers"
	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/embedders"
	"github.com/custodia-labs/semantica/internal/extractors"
)

// capturingPublisher records published event names for assertions.
type capturingPublisher struct {
	mu    sync.Mutex
	names []string
}

func (p *capturingPublisher) PublishAll(events []domain.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, event := range events {
		p.names = append(p.names, event.EventName())
	}
}

func (p *capturingPublisher) eventNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}

// testEnv wires all services onto in-memory stores.
type testEnv struct {
	publisher   *capturingPublisher
	sources     *SourceService
	units       *UnitService
	profiles    *ProfileService
	projections *ProjectionService
	lineage     *LineageService
	vectorStore *memory.VectorStore
	embedders   *embedders.Registry
	profileStore  *memory.ProfileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sourceStore := memory.NewSourceStore()
	unitStore := memory.NewSemanticUnitStore()
	profileStore := memory.NewProfileStore()
	projectionStore := memory.NewProjectionStore()
	lineageStore := memory.NewLineageStore()
	vectorStore := memory.NewVectorStore()

	chunkerRegistry := chunkers.NewRegistry()
	chunkers.RegisterDefaults(chunkerRegistry)
	embedderRegistry := embedders.NewRegistry()
	embedders.RegisterDefaults(embedderRegistry)
	extractorRegistry := extractors.NewRegistry()
	extractors.RegisterDefaults(extractorRegistry)

	publisher := &capturingPublisher{}

	return &testEnv{
		publisher:   publisher,
		sources:     NewSourceService(sourceStore, extractorRegistry, publisher),
		units:       NewUnitService(unitStore, sourceStore, projectionStore, profileStore, extractorRegistry, publisher),
		profiles:    NewProfileService(profileStore, chunkerRegistry, embedderRegistry, publisher),
		projections: NewProjectionService(projectionStore, unitStore, profileStore, vectorStore, chunkerRegistry, embedderRegistry, publisher),
		lineage:     NewLineageService(lineageStore),
		vectorStore: vectorStore,
		embedders:   embedderRegistry,
		profileStore:  profileStore,
	}
}

// registerProfile registers a recursive/hash profile and returns it.
func (e *testEnv) registerProfile(t *testing.T, id string, config map[string]any) *domain.ProcessingProfile {
	t.Helper()
	profile, err := e.profiles.Register(context.Background(), driving.ProfileInput{
		ID:                id,
		Name:              "Profile " + id,
		ChunkingStrategy:  "recursive",
		EmbeddingStrategy: "hash",
		Config:            config,
	})
	require.NoError(t, err)
	return profile
}

// indexUnit registers a source, creates a unit with the given content and
// versions it against the profile.
func (e *testEnv) indexUnit(t *testing.T, unitID, content, profileID string) *domain.SemanticUnit {
	t.Helper()
	ctx := context.Background()

	source, err := e.sources.Register(ctx, driving.RegisterSourceInput{
		ID:   unitID + "-src",
		Name: "source for " + unitID,
		Type: domain.SourceTypePlainText,
	})
	require.NoError(t, err)

	unit, err := e.units.Create(ctx, driving.CreateUnitInput{
		ID:       unitID,
		Name:     "Unit " + unitID,
		Language: "en",
		SourceID: source.ID,
		Content:  content,
	})
	require.NoError(t, err)

	version, err := e.units.Version(ctx, unitID, profileID, "initial")
	require.NoError(t, err)
	require.NotNil(t, version)
	return unit
}

func TestSourceService_RegisterAndExtract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	source, err := env.sources.Register(ctx, driving.RegisterSourceInput{
		ID:   "src-1",
		Name: "Notes",
		Type: domain.SourceTypePlainText,
	})
	require.NoError(t, err)
	assert.Equal(t, "src-1", source.ID)

	outcome, err := env.sources.Extract(ctx, "src-1", []byte("first content"), "")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, 1, outcome.Version)
	assert.Equal(t, "first content", outcome.Text)

	// Re-extracting unchanged content is a version no-op.
	outcome, err = env.sources.Extract(ctx, "src-1", []byte("first content"), "")
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Equal(t, 1, outcome.Version)

	outcome, err = env.sources.Extract(ctx, "src-1", []byte("second content"), "")
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, 2, outcome.Version)

	assert.Contains(t, env.publisher.eventNames(), "source.registered")
	assert.Contains(t, env.publisher.eventNames(), "source.extracted")
}

func TestSourceService_Register_GeneratesID(t *testing.T) {
	env := newTestEnv(t)

	source, err := env.sources.Register(context.Background(), driving.RegisterSourceInput{
		Name: "No explicit id",
		Type: domain.SourceTypePlainText,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, source.ID)
}

func TestSourceService_Register_DuplicateID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "first", Type: domain.SourceTypePlainText})
	require.NoError(t, err)

	_, err = env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "second", Type: domain.SourceTypePlainText})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSourceService_BatchRegister_PartialFailure(t *testing.T) {
	env := newTestEnv(t)

	results := env.sources.BatchRegister(context.Background(), []driving.RegisterSourceInput{
		{ID: "src-1", Name: "good", Type: domain.SourceTypePlainText},
		{ID: "src-2", Name: "", Type: domain.SourceTypePlainText},
		{ID: "src-3", Name: "also good", Type: domain.SourceTypePlainText},
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "src-1", results[0].SourceID)
	assert.ErrorIs(t, results[1].Err, domain.ErrInvalidInput)
	assert.NoError(t, results[2].Err)
}

func TestSourceService_BatchIngestAndExtract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	results := env.sources.BatchIngestAndExtract(ctx, []driving.IngestItem{
		{Input: driving.RegisterSourceInput{ID: "src-1", Name: "a", Type: domain.SourceTypePlainText}, Data: []byte("alpha")},
		{Input: driving.RegisterSourceInput{ID: "src-2", Name: "b", Type: domain.SourceTypePlainText}, Data: []byte("beta")},
	})

	require.Len(t, results, 2)
	for _, result := range results {
		require.NoError(t, result.Err)
		source, err := env.sources.Get(ctx, result.SourceID)
		require.NoError(t, err)
		require.NotNil(t, source.CurrentVersion())
		assert.Equal(t, 1, source.CurrentVersion().Version)
	}
}

func TestUnitService_CreateAndVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)

	_, err := env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "Notes", Type: domain.SourceTypePlainText})
	require.NoError(t, err)

	unit, err := env.units.Create(ctx, driving.CreateUnitInput{
		ID:       "unit-1",
		Name:     "Intro",
		SourceID: "src-1",
		Content:  "hello world",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitStateDraft, unit.State)
	// The hash is computed when not supplied.
	assert.NotEmpty(t, unit.Sources[0].ContentHash)

	version, err := env.units.Version(ctx, "unit-1", "profile-1", "initial")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, 1, version.Version)

	// Unchanged content: versioning is a no-op.
	version, err = env.units.Version(ctx, "unit-1", "profile-1", "again")
	require.NoError(t, err)
	assert.Nil(t, version)

	// Changed content permits a new version.
	require.NoError(t, env.units.AddSource(ctx, "unit-1", "src-1", "hello world, revised", ""))
	version, err = env.units.Version(ctx, "unit-1", "profile-1", "revised")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, 2, version.Version)
}

func TestUnitService_Version_DeprecatedProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)
	require.NoError(t, env.profiles.Deprecate(ctx, "profile-1"))

	_, err := env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "Notes", Type: domain.SourceTypePlainText})
	require.NoError(t, err)
	_, err = env.units.Create(ctx, driving.CreateUnitInput{ID: "unit-1", Name: "Intro", SourceID: "src-1", Content: "hello"})
	require.NoError(t, err)

	_, err = env.units.Version(ctx, "unit-1", "profile-1", "")
	assert.ErrorIs(t, err, domain.ErrProfileDeprecated)
}

func TestUnitService_Create_UnknownSource(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.units.Create(context.Background(), driving.CreateUnitInput{
		ID:       "unit-1",
		Name:     "Intro",
		SourceID: "nope",
		Content:  "hello",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnitService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "Notes", Type: domain.SourceTypePlainText})
	require.NoError(t, err)
	_, err = env.units.Create(ctx, driving.CreateUnitInput{ID: "unit-1", Name: "Intro", SourceID: "src-1", Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, env.units.Activate(ctx, "unit-1"))
	require.NoError(t, env.units.Deprecate(ctx, "unit-1", "superseded"))
	require.NoError(t, env.units.Archive(ctx, "unit-1", "done"))

	unit, err := env.units.Get(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitStateArchived, unit.State)

	assert.ErrorIs(t, env.units.Reprocess(ctx, "unit-1", "x"), domain.ErrUnitArchived)
}

func TestUnitService_Manifest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)
	env.indexUnit(t, "unit-1", "manifest content", "profile-1")

	_, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	manifest, err := env.units.Manifest(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, "unit-1", manifest.Unit.ID)
	require.Len(t, manifest.Sources, 1)
	assert.Equal(t, "unit-1-src", manifest.Sources[0].ID)
	require.Len(t, manifest.Projections, 1)
	assert.Equal(t, domain.ProjectionStatusCompleted, manifest.Projections[0].Status)
}

func TestProfileService_RegisterValidatesStrategies(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.profiles.Register(context.Background(), driving.ProfileInput{
		Name:              "Bad",
		ChunkingStrategy:  "nonexistent",
		EmbeddingStrategy: "hash",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = env.profiles.Register(context.Background(), driving.ProfileInput{
		Name:              "Bad",
		ChunkingStrategy:  "recursive",
		EmbeddingStrategy: "nonexistent",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestProfileService_Update_KeepsStrategiesWhenEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)

	updated, err := env.profiles.Update(ctx, driving.ProfileInput{
		ID:     "profile-1",
		Config: map[string]any{"max_chunk_size": 256},
	})
	require.NoError(t, err)
	assert.Equal(t, "recursive", updated.ChunkingStrategy)
	assert.Equal(t, "hash", updated.EmbeddingStrategy)
	assert.Equal(t, 2, updated.Version)
}

func TestProjectionService_Generate_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", map[string]any{"dimensions": 128})
	env.indexUnit(t, "unit-1", "Hello World! This is a test document.", "profile-1")

	projection, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProjectionStatusCompleted, projection.Status)
	assert.Equal(t, 1, projection.SemanticUnitVersion)
	assert.Equal(t, 1, projection.Result.ChunkCount)
	assert.Equal(t, 128, projection.Result.Dimensions)
	assert.Equal(t, "recursive", projection.Result.ChunkingStrategy)
	assert.Equal(t, "hash", projection.Result.EmbeddingStrategy)
	assert.Equal(t, 1, projection.Result.EmbeddingVersion)

	count, err := env.vectorStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Entry ids follow {unit}-{version}-{chunk}, so re-projection replaces.
	hits, err := env.vectorStore.Search(ctx, make([]float32, 128), 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "unit-1-1-0", hits[0].Entry.ID)
	assert.Equal(t, "unit-1", hits[0].Entry.Metadata["semantic_unit_id"])

	// The projection is attached to the version's source snapshot.
	unit, err := env.units.Get(ctx, "unit-1")
	require.NoError(t, err)
	assert.Contains(t, unit.Versions[0].SourceSnapshots[0].ProjectionIDs, projection.ID)

	assert.Contains(t, env.publisher.eventNames(), "projection.generated")
}

func TestProjectionService_Generate_ReplacesPriorVectors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)
	env.indexUnit(t, "unit-1", "original content", "profile-1")

	_, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	_, err = env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	// Two projections, but the unit's entries were swapped, not appended.
	count, err := env.vectorStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	projections, err := env.projections.ListByUnit(ctx, "unit-1")
	require.NoError(t, err)
	assert.Len(t, projections, 2)
}

func TestProjectionService_Generate_FailureRecordedOnProjection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Invalid chunker config makes processing fail after the record exists.
	env.registerProfile(t, "profile-1", map[string]any{"max_chunk_size": -5})
	env.indexUnit(t, "unit-1", "content", "profile-1")

	projection, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProjectionStatusFailed, projection.Status)
	assert.NotEmpty(t, projection.Error)

	// The failed record is persisted and the failure event published.
	loaded, err := env.projections.Get(ctx, projection.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectionStatusFailed, loaded.Status)
	assert.Contains(t, env.publisher.eventNames(), "projection.failed")
}

func TestProjectionService_Generate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)

	_, err := env.sources.Register(ctx, driving.RegisterSourceInput{ID: "src-1", Name: "Notes", Type: domain.SourceTypePlainText})
	require.NoError(t, err)
	_, err = env.units.Create(ctx, driving.CreateUnitInput{ID: "unit-1", Name: "Intro", SourceID: "src-1", Content: "hello"})
	require.NoError(t, err)

	// A unit with no versions cannot be projected.
	_, err = env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Deprecated profiles are rejected for new projections.
	_, err = env.units.Version(ctx, "unit-1", "profile-1", "")
	require.NoError(t, err)
	require.NoError(t, env.profiles.Deprecate(ctx, "profile-1"))
	_, err = env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	assert.ErrorIs(t, err, domain.ErrProfileDeprecated)

	// Archived units are rejected outright.
	require.NoError(t, env.units.Activate(ctx, "unit-1"))
	require.NoError(t, env.units.Archive(ctx, "unit-1", ""))
	_, err = env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	assert.ErrorIs(t, err, domain.ErrUnitArchived)
}

func TestProjectionService_BatchGenerate(t *testing.T) {
	env := newTestEnv(t)
	env.registerProfile(t, "profile-1", nil)
	env.indexUnit(t, "unit-1", "first unit content", "profile-1")
	env.indexUnit(t, "unit-2", "second unit content", "profile-1")

	results := env.projections.BatchGenerate(context.Background(), []driving.GenerateProjectionInput{
		{SemanticUnitID: "unit-1", ProcessingProfileID: "profile-1"},
		{SemanticUnitID: "missing", ProcessingProfileID: "profile-1"},
		{SemanticUnitID: "unit-2", ProcessingProfileID: "profile-1"},
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, domain.ProjectionStatusCompleted, results[0].Projection.Status)
	assert.ErrorIs(t, results[1].Err, domain.ErrNotFound)
	assert.NoError(t, results[2].Err)
}

func TestQueryService_Query(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)

	env.indexUnit(t, "unit-1", "The quick brown fox jumps over the lazy dog.", "profile-1")
	env.indexUnit(t, "unit-2", "Completely unrelated text about database migrations.", "profile-1")

	for _, unitID := range []string{"unit-1", "unit-2"} {
		_, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
			SemanticUnitID:      unitID,
			ProcessingProfileID: "profile-1",
		})
		require.NoError(t, err)
	}

	query := NewQueryService(env.profileStore, env.vectorStore, env.embedders, "profile-1")

	// The exact indexed text scores 1 against itself.
	results, err := query.Query(ctx, "The quick brown fox jumps over the lazy dog.", driving.QueryOptions{MinScore: 0.99})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "unit-1", results[0].SemanticUnitID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-4)

	// With the floor lowered both units come back, best first. Hash
	// similarities between unrelated texts can go negative.
	results, err = query.Query(ctx, "The quick brown fox jumps over the lazy dog.", driving.QueryOptions{MinScore: -1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "unit-1", results[0].SemanticUnitID)

	// Metadata filter narrows to one unit.
	results, err = query.Query(ctx, "quick brown fox", driving.QueryOptions{
		MinScore: -1,
		Filters:  map[string]any{"semantic_unit_id": "unit-2"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "unit-2", results[0].SemanticUnitID)
}

func TestQueryService_Query_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.registerProfile(t, "profile-1", nil)
	query := NewQueryService(env.profileStore, env.vectorStore, env.embedders, "profile-1")

	_, err := query.Query(context.Background(), "   ", driving.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := NewQueryService(env.profileStore, env.vectorStore, env.embedders, "nope")
	_, err = missing.Query(context.Background(), "text", driving.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_DeprecatedProfileStillServes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerProfile(t, "profile-1", nil)
	env.indexUnit(t, "unit-1", "searchable content", "profile-1")

	_, err := env.projections.Generate(ctx, driving.GenerateProjectionInput{
		SemanticUnitID:      "unit-1",
		ProcessingProfileID: "profile-1",
	})
	require.NoError(t, err)

	require.NoError(t, env.profiles.Deprecate(ctx, "profile-1"))

	query := NewQueryService(env.profileStore, env.vectorStore, env.embedders, "profile-1")
	results, err := query.Query(ctx, "searchable content", driving.QueryOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestLineageService_TransformationsAndTraces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.lineage.RegisterTransformation(ctx, driving.RegisterTransformationInput{
		SemanticUnitID: "unit-1",
		Type:           domain.TransformationChunking,
		StrategyUsed:   "recursive",
		InputVersion:   1,
		OutputVersion:  1,
	}))
	require.NoError(t, env.lineage.AddTrace(ctx, "unit-1", "unit-2", "derived-from"))

	lineage, err := env.lineage.Get(ctx, "unit-1")
	require.NoError(t, err)
	require.Len(t, lineage.Transformations, 1)
	require.Len(t, lineage.Traces, 1)

	_, err = env.lineage.Get(ctx, "unit-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "/tmp/notes.md", FilePath("file:///tmp/notes.md"))
	assert.Equal(t, "/tmp/notes.md", FilePath("/tmp/notes.md"))
	assert.Equal(t, "notes.md", FilePath("notes.md"))
	assert.Empty(t, FilePath("https://example.com/doc"))
}
