package driven

import "github.com/custodia-labs/semantica/internal/core/domain"

// RankingStrategy re-ranks raw similarity results before they are returned
// to the caller. The default implementation is a pass-through that preserves
// vector-store order.
type RankingStrategy interface {
	// StrategyID returns the registered ranker id.
	StrategyID() string

	// Rank reorders hits. Implementations must not drop hits.
	Rank(query string, hits []domain.VectorHit) []domain.VectorHit
}
