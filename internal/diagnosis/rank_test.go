// internal/diagnosis/rank_test.go
package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobchaja-workers/internal/models"
)

func rankedIDs(pathways []models.RecommendedPathway) []string {
	ids := make([]string, 0, len(pathways))
	for _, p := range pathways {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRankPathways_ScoreDescendingFirst(t *testing.T) {
	pathways := []models.RecommendedPathway{
		{ID: "low", FinalScore: 40},
		{ID: "high", FinalScore: 90},
		{ID: "mid", FinalScore: 70},
	}

	ranked := RankPathways(pathways, models.PrioritySpeed, 10)

	assert.Equal(t, []string{"high", "mid", "low"}, rankedIDs(ranked))
}

func TestRankPathways_TieBreaks(t *testing.T) {
	tied := []models.RecommendedPathway{
		{
			ID: "slow-cheap", FinalScore: 70, EstimatedMonths: 48,
			EstimatedCostWon: 1000000,
			ScoreBreakdown:   models.ScoreBreakdown{Base: 60},
		},
		{
			ID: "fast-expensive", FinalScore: 70, EstimatedMonths: 12,
			EstimatedCostWon: 9000000,
			ScoreBreakdown:   models.ScoreBreakdown{Base: 80},
		},
		{
			ID: "middle", FinalScore: 70, EstimatedMonths: 24,
			EstimatedCostWon: 5000000,
			ScoreBreakdown:   models.ScoreBreakdown{Base: 70},
		},
	}

	tests := []struct {
		name     string
		priority models.PriorityPreference
		want     []string
	}{
		{
			name:     "speed prefers shortest timeline",
			priority: models.PrioritySpeed,
			want:     []string{"fast-expensive", "middle", "slow-cheap"},
		},
		{
			name:     "cost prefers cheapest",
			priority: models.PriorityCost,
			want:     []string{"slow-cheap", "middle", "fast-expensive"},
		},
		{
			name:     "success rate prefers higher base",
			priority: models.PrioritySuccessRate,
			want:     []string{"fast-expensive", "middle", "slow-cheap"},
		},
		{
			name:     "field match keeps input order",
			priority: models.PriorityFieldMatch,
			want:     []string{"slow-cheap", "fast-expensive", "middle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankPathways(tied, tt.priority, 10)
			assert.Equal(t, tt.want, rankedIDs(ranked))
		})
	}
}

func TestRankPathways_TruncatesToTopN(t *testing.T) {
	pathways := []models.RecommendedPathway{
		{ID: "a", FinalScore: 90},
		{ID: "b", FinalScore: 80},
		{ID: "c", FinalScore: 70},
		{ID: "d", FinalScore: 60},
	}

	ranked := RankPathways(pathways, models.PriorityFieldMatch, 2)

	assert.Equal(t, []string{"a", "b"}, rankedIDs(ranked))
}

func TestRankPathways_DoesNotMutateInput(t *testing.T) {
	pathways := []models.RecommendedPathway{
		{ID: "second", FinalScore: 10},
		{ID: "first", FinalScore: 90},
	}

	RankPathways(pathways, models.PrioritySpeed, 10)

	assert.Equal(t, "second", pathways[0].ID)
}
