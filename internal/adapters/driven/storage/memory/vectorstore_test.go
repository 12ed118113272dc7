package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

func vectorEntry(id, unitID string, vector []float32, metadata map[string]any) domain.VectorEntry {
	return domain.VectorEntry{
		ID:             id,
		SemanticUnitID: unitID,
		Vector:         vector,
		Content:        "content of " + id,
		Metadata:       metadata,
	}
}

func TestVectorStore_UpsertAndSearch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{
		vectorEntry("e1", "unit-1", []float32{1, 0}, nil),
		vectorEntry("e2", "unit-1", []float32{0, 1}, nil),
		vectorEntry("e3", "unit-2", []float32{0.9, 0.1}, nil),
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// Ranked by descending similarity to the query.
	assert.Equal(t, "e1", hits[0].Entry.ID)
	assert.Equal(t, "e3", hits[1].Entry.ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestVectorStore_Upsert_ReplacesByID(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{vectorEntry("e1", "unit-1", []float32{1, 0}, nil)}))
	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{vectorEntry("e1", "unit-1", []float32{0, 1}, nil)}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := store.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestVectorStore_Upsert_EmptyID(t *testing.T) {
	store := NewVectorStore()

	err := store.Upsert(context.Background(), []domain.VectorEntry{vectorEntry("", "unit-1", []float32{1}, nil)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_SearchFilter(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{
		vectorEntry("e1", "unit-1", []float32{1, 0}, map[string]any{"semantic_unit_id": "unit-1"}),
		vectorEntry("e2", "unit-2", []float32{1, 0}, map[string]any{"semantic_unit_id": "unit-2"}),
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10, map[string]any{"semantic_unit_id": "unit-2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "e2", hits[0].Entry.ID)

	hits, err = store.Search(ctx, []float32{1, 0}, 10, map[string]any{"semantic_unit_id": "unit-9"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStore_Search_NonPositiveTopK(t *testing.T) {
	store := NewVectorStore()
	require.NoError(t, store.Upsert(context.Background(), []domain.VectorEntry{vectorEntry("e1", "u", []float32{1}, nil)}))

	hits, err := store.Search(context.Background(), []float32{1}, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestVectorStore_DeleteBySemanticUnitID(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{
		vectorEntry("e1", "unit-1", []float32{1, 0}, nil),
		vectorEntry("e2", "unit-1", []float32{0, 1}, nil),
		vectorEntry("e3", "unit-2", []float32{1, 1}, nil),
	}))

	require.NoError(t, store.DeleteBySemanticUnitID(ctx, "unit-1"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := store.Search(ctx, []float32{1, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "e3", hits[0].Entry.ID)
}

func TestVectorStore_Delete_IgnoresMissing(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{vectorEntry("e1", "u", []float32{1}, nil)}))
	require.NoError(t, store.Delete(ctx, []string{"e1", "nope"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVectorStore_Upsert_CopiesVector(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	vector := []float32{1, 0}
	require.NoError(t, store.Upsert(ctx, []domain.VectorEntry{vectorEntry("e1", "u", vector, nil)}))

	// Mutating the caller's slice must not reach the store.
	vector[0] = -1
	hits, err := store.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}
