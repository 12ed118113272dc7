package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must skip already-applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestSourceStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	source, err := domain.NewSource("src-1", "Notes", domain.SourceTypeMarkdown, "file:///notes.md")
	require.NoError(t, err)
	_, err = source.RecordExtraction("hash-a")
	require.NoError(t, err)
	_, err = source.RecordExtraction("hash-b")
	require.NoError(t, err)

	require.NoError(t, sources.Save(ctx, source))

	loaded, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Notes", loaded.Name)
	assert.Equal(t, domain.SourceTypeMarkdown, loaded.Type)
	require.Len(t, loaded.Versions, 2)
	assert.Equal(t, "hash-b", loaded.CurrentVersion().ContentHash)
	assert.False(t, loaded.CreatedAt.IsZero())

	_, err = sources.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_SaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	source, err := domain.NewSource("src-1", "Before", domain.SourceTypePlainText, "")
	require.NoError(t, err)
	require.NoError(t, sources.Save(ctx, source))

	source.Name = "After"
	require.NoError(t, sources.Save(ctx, source))

	loaded, err := sources.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "After", loaded.Name)

	all, err := sources.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSourceStore_ListByType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sources := store.SourceStore()

	for _, spec := range []struct {
		id string
		t  domain.SourceType
	}{
		{"src-1", domain.SourceTypeCSV},
		{"src-2", domain.SourceTypePlainText},
	} {
		source, err := domain.NewSource(spec.id, "s", spec.t, "")
		require.NoError(t, err)
		require.NoError(t, sources.Save(ctx, source))
	}

	csvSources, err := sources.ListByType(ctx, domain.SourceTypeCSV)
	require.NoError(t, err)
	require.Len(t, csvSources, 1)
	assert.Equal(t, "src-1", csvSources[0].ID)
}

func TestSemanticUnitStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	units := store.SemanticUnitStore()

	unit, err := domain.NewSemanticUnit("unit-1", "Intro", "Docs intro", "en", domain.UnitSource{
		SourceID:         "src-1",
		SourceType:       domain.SourceTypeMarkdown,
		ExtractedContent: "hello world",
		ContentHash:      "hash-a",
	})
	require.NoError(t, err)
	_, err = unit.NextVersion("profile-1", 1, "initial")
	require.NoError(t, err)
	unit.AttachProjection(1, "src-1", "proj-1")
	require.NoError(t, units.Save(ctx, unit))

	loaded, err := units.Get(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitStateDraft, loaded.State)
	require.Len(t, loaded.Sources, 1)
	assert.Equal(t, "hello world", loaded.Sources[0].ExtractedContent)
	require.Len(t, loaded.Versions, 1)
	assert.Equal(t, "profile-1", loaded.Versions[0].ProcessingProfileID)
	assert.Equal(t, []string{"proj-1"}, loaded.Versions[0].SourceSnapshots[0].ProjectionIDs)
	assert.Equal(t, "initial", loaded.Versions[0].Reason)
}

func TestSemanticUnitStore_ListBySourceID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	units := store.SemanticUnitStore()

	for _, spec := range []struct{ id, sourceID string }{
		{"unit-1", "src-a"},
		{"unit-2", "src-b"},
	} {
		unit, err := domain.NewSemanticUnit(spec.id, "n", "", "en", domain.UnitSource{SourceID: spec.sourceID, ContentHash: "h"})
		require.NoError(t, err)
		require.NoError(t, units.Save(ctx, unit))
	}

	matched, err := units.ListBySourceID(ctx, "src-a")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "unit-1", matched[0].ID)
}

func TestProfileStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	profiles := store.ProfileStore()

	profile, err := domain.NewProcessingProfile("profile-1", "Default", "recursive", "hash", map[string]any{"chunk_size": float64(512)})
	require.NoError(t, err)
	require.NoError(t, profiles.Save(ctx, profile))

	loaded, err := profiles.Get(ctx, "profile-1")
	require.NoError(t, err)
	assert.True(t, loaded.Active)
	assert.Equal(t, 1, loaded.Version)
	assert.Equal(t, float64(512), loaded.Config["chunk_size"])

	loaded.Deprecate()
	require.NoError(t, profiles.Save(ctx, loaded))

	fresh, err := profiles.Get(ctx, "profile-1")
	require.NoError(t, err)
	assert.False(t, fresh.Active)
}

func TestProfileStore_NilConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	profiles := store.ProfileStore()

	profile, err := domain.NewProcessingProfile("profile-1", "Default", "recursive", "hash", nil)
	require.NoError(t, err)
	require.NoError(t, profiles.Save(ctx, profile))

	loaded, err := profiles.Get(ctx, "profile-1")
	require.NoError(t, err)
	assert.Nil(t, loaded.Config)
}

func TestProjectionStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	projections := store.ProjectionStore()

	projection, err := domain.NewSemanticProjection("proj-1", "unit-1", 1, domain.ProjectionTypeEmbedding, "profile-1")
	require.NoError(t, err)
	require.NoError(t, projection.Start())
	require.NoError(t, projection.Complete(domain.ProjectionResult{
		ChunkCount:        3,
		Dimensions:        128,
		ChunkingStrategy:  "recursive",
		EmbeddingStrategy: "hash",
		EmbeddingVersion:  1,
	}))
	require.NoError(t, projections.Save(ctx, projection))

	loaded, err := projections.Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectionStatusCompleted, loaded.Status)
	assert.Equal(t, 3, loaded.Result.ChunkCount)
	assert.Equal(t, "hash", loaded.Result.EmbeddingStrategy)

	byUnit, err := projections.ListBySemanticUnitID(ctx, "unit-1")
	require.NoError(t, err)
	assert.Len(t, byUnit, 1)
}

func TestLineageStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lineages := store.LineageStore()

	lineage := domain.NewKnowledgeLineage("unit-1")
	lineage.Append(domain.Transformation{
		Type:          domain.TransformationEmbedding,
		StrategyUsed:  "hash",
		InputVersion:  1,
		OutputVersion: 1,
		Parameters:    map[string]any{"dimensions": float64(128)},
	})
	lineage.AddTrace("unit-2", "derived-from")
	require.NoError(t, lineages.Save(ctx, lineage))

	loaded, err := lineages.Get(ctx, "unit-1")
	require.NoError(t, err)
	require.Len(t, loaded.Transformations, 1)
	assert.Equal(t, float64(128), loaded.Transformations[0].Parameters["dimensions"])
	require.Len(t, loaded.Traces, 1)
	assert.Equal(t, "unit-2", loaded.Traces[0].ToUnitID)
}

func TestVectorStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.Upsert(ctx, []domain.VectorEntry{
		{
			ID:             "unit-1-1-0",
			SemanticUnitID: "unit-1",
			Vector:         []float32{1, 0, 0},
			Content:        "first chunk",
			Metadata:       map[string]any{"semantic_unit_id": "unit-1"},
		},
		{
			ID:             "unit-2-1-0",
			SemanticUnitID: "unit-2",
			Vector:         []float32{0, 1, 0},
			Content:        "second chunk",
			Metadata:       map[string]any{"semantic_unit_id": "unit-2"},
		},
	}))

	count, err := vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	hits, err := vectors.Search(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "unit-1-1-0", hits[0].Entry.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, []float32{1, 0, 0}, hits[0].Entry.Vector)
	assert.Equal(t, "first chunk", hits[0].Entry.Content)

	// Exact-match metadata filter.
	hits, err = vectors.Search(ctx, []float32{1, 0, 0}, 10, map[string]any{"semantic_unit_id": "unit-2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "unit-2-1-0", hits[0].Entry.ID)

	require.NoError(t, vectors.DeleteBySemanticUnitID(ctx, "unit-1"))
	count, err = vectors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	entry := domain.VectorEntry{ID: "e1", SemanticUnitID: "unit-1", Vector: []float32{1, 0}, Content: "v1"}
	require.NoError(t, vectors.Upsert(ctx, []domain.VectorEntry{entry}))

	entry.Content = "v2"
	entry.Vector = []float32{0, 1}
	require.NoError(t, vectors.Upsert(ctx, []domain.VectorEntry{entry}))

	hits, err := vectors.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v2", hits[0].Entry.Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	vector := []float32{0.5, -1.25, 3.75, 0}
	assert.Equal(t, vector, bytesToFloat32Slice(float32SliceToBytes(vector)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
