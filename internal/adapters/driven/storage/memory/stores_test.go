package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

func TestSourceStore_SaveGetList(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	source, err := domain.NewSource("src-1", "Notes", domain.SourceTypeMarkdown, "file:///notes.md")
	require.NoError(t, err)
	_, err = source.RecordExtraction("hash-a")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, source))

	loaded, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Notes", loaded.Name)
	require.Len(t, loaded.Versions, 1)
	// Pending events never survive persistence.
	assert.Empty(t, loaded.PendingEvents())

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sources, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestSourceStore_ListByType(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	for _, spec := range []struct {
		id string
		t  domain.SourceType
	}{
		{"src-1", domain.SourceTypeMarkdown},
		{"src-2", domain.SourceTypePlainText},
		{"src-3", domain.SourceTypeMarkdown},
	} {
		source, err := domain.NewSource(spec.id, "s", spec.t, "")
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, source))
	}

	markdown, err := store.ListByType(ctx, domain.SourceTypeMarkdown)
	require.NoError(t, err)
	assert.Len(t, markdown, 2)
}

func TestSemanticUnitStore_DeepCopyIsolation(t *testing.T) {
	store := NewSemanticUnitStore()
	ctx := context.Background()

	unit, err := domain.NewSemanticUnit("unit-1", "Intro", "", "en", domain.UnitSource{
		SourceID:         "src-1",
		SourceType:       domain.SourceTypePlainText,
		ExtractedContent: "hello",
		ContentHash:      "hash-a",
	})
	require.NoError(t, err)
	_, err = unit.NextVersion("profile-1", 1, "")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, unit))

	// Mutations on a loaded copy never leak back into the store.
	loaded, err := store.Get(ctx, "unit-1")
	require.NoError(t, err)
	loaded.Sources[0].ContentHash = "tampered"
	loaded.Versions[0].SourceSnapshots[0].ProjectionIDs = append(loaded.Versions[0].SourceSnapshots[0].ProjectionIDs, "proj-x")

	fresh, err := store.Get(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", fresh.Sources[0].ContentHash)
	assert.Empty(t, fresh.Versions[0].SourceSnapshots[0].ProjectionIDs)
}

func TestSemanticUnitStore_ListBySourceID(t *testing.T) {
	store := NewSemanticUnitStore()
	ctx := context.Background()

	for _, spec := range []struct{ id, sourceID string }{
		{"unit-1", "src-a"},
		{"unit-2", "src-b"},
		{"unit-3", "src-a"},
	} {
		unit, err := domain.NewSemanticUnit(spec.id, "n", "", "en", domain.UnitSource{
			SourceID:    spec.sourceID,
			ContentHash: "h",
		})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, unit))
	}

	units, err := store.ListBySourceID(ctx, "src-a")
	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestProfileStore_ConfigIsolation(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	profile, err := domain.NewProcessingProfile("profile-1", "Default", "recursive", "hash", map[string]any{"chunk_size": 512})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, profile))

	loaded, err := store.Get(ctx, "profile-1")
	require.NoError(t, err)
	loaded.Config["chunk_size"] = 1

	fresh, err := store.Get(ctx, "profile-1")
	require.NoError(t, err)
	assert.Equal(t, 512, fresh.Config["chunk_size"])
}

func TestProjectionStore_ListBySemanticUnitID(t *testing.T) {
	store := NewProjectionStore()
	ctx := context.Background()

	for _, spec := range []struct{ id, unitID string }{
		{"proj-1", "unit-1"},
		{"proj-2", "unit-1"},
		{"proj-3", "unit-2"},
	} {
		projection, err := domain.NewSemanticProjection(spec.id, spec.unitID, 1, domain.ProjectionTypeEmbedding, "profile-1")
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, projection))
	}

	projections, err := store.ListBySemanticUnitID(ctx, "unit-1")
	require.NoError(t, err)
	assert.Len(t, projections, 2)

	_, err = store.Get(ctx, "proj-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineageStore_RoundTrip(t *testing.T) {
	store := NewLineageStore()
	ctx := context.Background()

	lineage := domain.NewKnowledgeLineage("unit-1")
	lineage.Append(domain.Transformation{Type: domain.TransformationChunking, StrategyUsed: "recursive", InputVersion: 1, OutputVersion: 1})
	lineage.AddTrace("unit-2", "derived-from")
	require.NoError(t, store.Save(ctx, lineage))

	loaded, err := store.Get(ctx, "unit-1")
	require.NoError(t, err)
	require.Len(t, loaded.Transformations, 1)
	require.Len(t, loaded.Traces, 1)
	assert.Equal(t, domain.TransformationChunking, loaded.Transformations[0].Type)

	_, err = store.Get(ctx, "unit-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
