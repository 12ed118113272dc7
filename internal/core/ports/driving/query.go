package driving

import "context"

// QueryOptions configures a similarity query.
type QueryOptions struct {
	// TopK is the maximum number of results (default 10).
	TopK int

	// MinScore drops results scoring below it (post-filter).
	MinScore float64

	// Filters is an exact-match metadata filter applied before scoring.
	Filters map[string]any
}

// QueryResult is one ranked similarity hit.
type QueryResult struct {
	// SemanticUnitID is the unit the matched chunk belongs to.
	SemanticUnitID string

	// Content is the matched chunk text.
	Content string

	// Score is the cosine similarity against the query embedding.
	Score float64

	// Metadata carries the stored chunk metadata.
	Metadata map[string]any
}

// QueryService answers similarity queries against the vector store.
type QueryService interface {
	// Query embeds text with the same strategy used at index time, searches
	// the vector store and returns ranked results.
	Query(ctx context.Context, text string, opts QueryOptions) ([]QueryResult, error)
}
