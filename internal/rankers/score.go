// Package rankers provides ranking strategy implementations.
package rankers

import (
	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure ScoreRanker implements the interface.
var _ driven.RankingStrategy = (*ScoreRanker)(nil)

// ScoreRanker is the pass-through ranking strategy: it trusts the cosine
// ordering produced by the vector store and reorders nothing.
type ScoreRanker struct{}

// NewScoreRanker creates a score ranker.
func NewScoreRanker() *ScoreRanker {
	return &ScoreRanker{}
}

// StrategyID returns the registered ranker id.
func (r *ScoreRanker) StrategyID() string {
	return "score"
}

// Rank returns hits unchanged.
func (r *ScoreRanker) Rank(_ string, hits []domain.VectorHit) []domain.VectorHit {
	return hits
}
