// internal/diagnosis/rank.go
package diagnosis

import (
	"sort"

	"jobchaja-workers/internal/models"
)

// RankPathways orders scored pathways by final score descending and resolves
// ties with the applicant's priority. The sort is stable, so inputs that tie
// on every criterion keep catalog order, and the result is truncated to topN.
func RankPathways(pathways []models.RecommendedPathway, priority models.PriorityPreference, topN int) []models.RecommendedPathway {
	ranked := make([]models.RecommendedPathway, len(pathways))
	copy(ranked, pathways)

	less := tieBreak(priority)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return less(ranked[i], ranked[j])
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// tieBreak returns the secondary comparison for pathways with equal final
// scores. Field-match has no secondary axis: ties keep catalog order.
func tieBreak(priority models.PriorityPreference) func(a, b models.RecommendedPathway) bool {
	switch priority {
	case models.PrioritySpeed:
		return func(a, b models.RecommendedPathway) bool {
			return a.EstimatedMonths < b.EstimatedMonths
		}
	case models.PriorityCost:
		return func(a, b models.RecommendedPathway) bool {
			return a.EstimatedCostWon < b.EstimatedCostWon
		}
	case models.PrioritySuccessRate:
		return func(a, b models.RecommendedPathway) bool {
			return a.ScoreBreakdown.Base > b.ScoreBreakdown.Base
		}
	default:
		return func(a, b models.RecommendedPathway) bool {
			return false
		}
	}
}
