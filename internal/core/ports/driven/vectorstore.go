package driven

import (
	"context"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

// VectorStore persists vector entries and answers top-K cosine-similarity
// queries. Entries are keyed by id; delete-by-unit removes all entries for a
// semantic unit so re-projection never leaves stale chunks behind.
type VectorStore interface {
	// Upsert inserts or overwrites entries by id.
	Upsert(ctx context.Context, entries []domain.VectorEntry) error

	// Delete removes entries by id. Missing ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// DeleteBySemanticUnitID removes all entries for the given unit.
	DeleteBySemanticUnitID(ctx context.Context, unitID string) error

	// Search returns up to topK entries ranked by descending cosine
	// similarity against the query vector. The optional filter is an
	// exact-match metadata filter applied before scoring.
	Search(ctx context.Context, query []float32, topK int, filter map[string]any) ([]domain.VectorHit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
