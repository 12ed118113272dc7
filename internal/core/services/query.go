package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/logger"
)

// DefaultTopK is the result limit used when the caller does not set one.
const DefaultTopK = 10

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers similarity queries against the vector store. The
// query text is embedded with the strategy of the given profile, which must
// be the profile the queried projections were built with for scores to be
// meaningful.
type QueryService struct {
	profiles  driven.ProfileStore
	vectors   driven.VectorStore
	embedders EmbedderRegistry
	ranker    driven.RankingStrategy
	profileID string
}

// QueryOption configures a QueryService.
type QueryOption func(*QueryService)

// WithRanker sets the ranking strategy applied to raw hits.
func WithRanker(ranker driven.RankingStrategy) QueryOption {
	return func(s *QueryService) {
		s.ranker = ranker
	}
}

// NewQueryService creates a query service bound to the given profile.
func NewQueryService(profiles driven.ProfileStore, vectors driven.VectorStore, embedders EmbedderRegistry, profileID string, opts ...QueryOption) *QueryService {
	s := &QueryService{
		profiles:  profiles,
		vectors:   vectors,
		embedders: embedders,
		profileID: profileID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query embeds text with the same strategy used at index time, searches the
// vector store and returns ranked results.
func (s *QueryService) Query(ctx context.Context, text string, opts driving.QueryOptions) ([]driving.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	profile, err := s.profiles.Get(ctx, s.profileID)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %s: %w", s.profileID, err)
	}

	// Deprecated profiles still serve queries; existing projections built
	// with them stay valid.
	embedder, err := s.embedders.Build(profile.EmbeddingStrategy, profile.Config)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}

	queryVector, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, queryVector, topK, opts.Filters)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}

	if s.ranker != nil {
		hits = s.ranker.Rank(text, hits)
	}

	results := make([]driving.QueryResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.MinScore {
			continue
		}
		results = append(results, driving.QueryResult{
			SemanticUnitID: hit.Entry.SemanticUnitID,
			Content:        hit.Entry.Content,
			Score:          hit.Score,
			Metadata:       hit.Entry.Metadata,
		})
	}

	logger.Debug("query returned %d of %d hits", len(results), len(hits))
	return results, nil
}
