package rankers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

func TestScoreRanker_PreservesOrder(t *testing.T) {
	ranker := NewScoreRanker()

	hits := []domain.VectorHit{
		{Entry: domain.VectorEntry{ID: "a"}, Score: 0.9},
		{Entry: domain.VectorEntry{ID: "b"}, Score: 0.5},
		{Entry: domain.VectorEntry{ID: "c"}, Score: 0.1},
	}

	ranked := ranker.Rank("any query", hits)
	assert.Equal(t, hits, ranked)
}

func TestScoreRanker_Identity(t *testing.T) {
	ranker := NewScoreRanker()
	assert.Equal(t, "score", ranker.StrategyID())
	assert.Nil(t, ranker.Rank("query", nil))
}
