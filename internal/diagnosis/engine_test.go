// internal/diagnosis/engine_test.go
package diagnosis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobchaja-workers/internal/models"
)

func testEngine(catalog *models.VisaCatalog) *Engine {
	return NewEngine(catalog, Config{
		TopN:              10,
		HourlyMinimumWage: 10030,
		WonPerUSD:         1350,
		Clock: func() time.Time {
			return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		},
	})
}

func TestEvaluate_VietnameseBachelorLongTermWork(t *testing.T) {
	engine := testEngine(testCatalog())

	result, err := engine.Evaluate(validRaw())
	require.NoError(t, err)
	require.NotEmpty(t, result.Pathways)

	validLabels := map[string]bool{
		"매우 높음": true, "높음": true, "보통": true, "낮음": true, "매우 낮음": true,
	}

	foundWorkVisa := false
	for _, p := range result.Pathways {
		require.NotEmpty(t, p.VisaChain)
		assert.GreaterOrEqual(t, p.FinalScore, 0)
		assert.LessOrEqual(t, p.FinalScore, 100)
		assert.True(t, validLabels[p.FeasibilityLabel], "label %q", p.FeasibilityLabel)
		assert.Equal(t, FeasibilityLabel(p.FinalScore), p.FeasibilityLabel)

		for _, seg := range p.VisaChain {
			if seg.VisaCode == "E-7" || seg.VisaCode == "E-9" {
				foundWorkVisa = true
			}
		}
	}
	assert.True(t, foundWorkVisa, "expected at least one E-7 or E-9 pathway")

	assert.Equal(t, "VN", result.UserInput.Nationality)
	assert.Equal(t,
		result.Meta.TotalPathwaysEvaluated+result.Meta.HardFilteredOut,
		engine.Catalog().Size())
}

func TestEvaluate_UpperAgeBoundExcludesVisas(t *testing.T) {
	engine := testEngine(testCatalog())
	raw := validRaw()
	raw.Age = 70

	result, err := engine.Evaluate(raw)
	require.NoError(t, err)

	for _, p := range result.Pathways {
		for _, seg := range p.VisaChain {
			assert.NotEqual(t, "E-9", seg.VisaCode, "age-capped visa must not appear")
		}
	}
	assert.Positive(t, result.Meta.HardFilteredOut)
	assert.Equal(t,
		engine.Catalog().Size(),
		result.Meta.TotalPathwaysEvaluated+result.Meta.HardFilteredOut)
}

func TestEvaluate_PriorityReordersTiedPathways(t *testing.T) {
	// Two roots in the same category score identically; they differ only in
	// timeline and cost, so the ordering is decided purely by the priority.
	catalog := &models.VisaCatalog{
		Version:       "tied",
		Nationalities: []string{"VN"},
		Entries: []models.VisaCatalogEntry{
			{Code: "S-1", Category: models.CategorySeasonalWork, NameKo: "단기 A", BaseScore: 70},
			{Code: "S-2", Category: models.CategorySeasonalWork, NameKo: "단기 B", BaseScore: 70},
		},
		Nodes: map[string]models.ChainNode{
			"S-1": {
				Code: "S-1", Category: models.CategorySeasonalWork,
				NameKo: "단기 A", Months: 5, DurationLabel: "5개월", CostWon: 3000000,
				MilestoneKo: "입국", CompletionKo: "종료",
			},
			"S-2": {
				Code: "S-2", Category: models.CategorySeasonalWork,
				NameKo: "단기 B", Months: 10, DurationLabel: "10개월", CostWon: 500000,
				MilestoneKo: "입국", CompletionKo: "종료",
			},
		},
		GoalTerminals: map[models.FinalGoal][]string{
			models.GoalShortTermWork: {"S-1", "S-2"},
		},
		Rules: models.RuleTables{
			Age: map[models.VisaCategory][]models.AgeBand{
				models.CategorySeasonalWork: {{MaxAge: 99, Multiplier: 1.0}},
			},
			Nationality: map[models.VisaCategory]models.NationalityRule{
				models.CategorySeasonalWork: {Default: 1.0},
			},
			Fund: map[models.VisaCategory]map[models.FundBucket]float64{
				models.CategorySeasonalWork: fundRow(1, 1, 1, 1),
			},
			Education: map[models.VisaCategory]map[models.EducationLevel]float64{
				models.CategorySeasonalWork: educationRow(1, 1, 1, 1, 1),
			},
			GoalFit: map[models.FinalGoal]map[models.VisaCategory]float64{
				models.GoalShortTermWork: {models.CategorySeasonalWork: 1.0},
			},
			Priority: map[models.PriorityPreference]map[models.VisaCategory]float64{
				models.PrioritySpeed: {models.CategorySeasonalWork: 1.0},
				models.PriorityCost:  {models.CategorySeasonalWork: 1.0},
			},
		},
	}
	engine := testEngine(catalog)

	raw := validRaw()
	raw.Nationality = "VN"
	raw.FinalGoal = "단기 취업"

	raw.PriorityPreference = "속도"
	bySpeed, err := engine.Evaluate(raw)
	require.NoError(t, err)

	raw.PriorityPreference = "비용"
	byCost, err := engine.Evaluate(raw)
	require.NoError(t, err)

	require.Len(t, bySpeed.Pathways, 2)
	require.Len(t, byCost.Pathways, 2)
	assert.Equal(t, bySpeed.Pathways[0].FinalScore, bySpeed.Pathways[1].FinalScore)

	assert.Equal(t, "S-1", bySpeed.Pathways[0].ID, "speed picks the 5 month pathway")
	assert.Equal(t, "S-2", byCost.Pathways[0].ID, "cost picks the cheaper pathway")

	// Reordering never changes the set of recommended pathways.
	assert.ElementsMatch(t,
		rankedIDs(bySpeed.Pathways), rankedIDs(byCost.Pathways))
}

func TestEvaluate_NoEligiblePathwaysIsEmptyResult(t *testing.T) {
	engine := testEngine(testCatalog())
	raw := &RawDiagnosisInput{
		Nationality:        "JP",
		Age:                70,
		EducationLevel:     "고졸 이하",
		AvailableFund:      "300만원 미만",
		FinalGoal:          "장기 취업",
		PriorityPreference: "속도",
	}

	result, err := engine.Evaluate(raw)
	require.NoError(t, err, "an empty result is not an error")

	assert.Empty(t, result.Pathways)
	assert.Zero(t, result.Meta.TotalPathwaysEvaluated)
	assert.Equal(t, engine.Catalog().Size(), result.Meta.HardFilteredOut)
}

func TestEvaluate_IsPure(t *testing.T) {
	engine := testEngine(testCatalog())

	first, err := engine.Evaluate(validRaw())
	require.NoError(t, err)
	second, err := engine.Evaluate(validRaw())
	require.NoError(t, err)

	assert.Equal(t, first.Pathways, second.Pathways)
	assert.Equal(t, first.UserInput, second.UserInput)
}

func TestEvaluate_MilestoneTimelineInvariants(t *testing.T) {
	engine := testEngine(testCatalog())

	result, err := engine.Evaluate(validRaw())
	require.NoError(t, err)

	for _, p := range result.Pathways {
		require.NotEmpty(t, p.Milestones, "pathway %s", p.ID)
		for i := 1; i < len(p.Milestones); i++ {
			assert.GreaterOrEqual(t,
				p.Milestones[i].MonthFromStart, p.Milestones[i-1].MonthFromStart,
				"pathway %s", p.ID)
		}
		assert.Equal(t,
			p.Milestones[len(p.Milestones)-1].MonthFromStart, p.EstimatedMonths,
			"pathway %s", p.ID)
	}
}

func TestEvaluate_InvalidInputReturnsError(t *testing.T) {
	engine := testEngine(testCatalog())
	raw := validRaw()
	raw.FinalGoal = "world domination"

	result, err := engine.Evaluate(raw)

	assert.Nil(t, result)
	var unknownErr *UnknownOptionError
	require.ErrorAs(t, err, &unknownErr)
}

func TestEvaluate_TopNTruncation(t *testing.T) {
	catalog := testCatalog()
	engine := NewEngine(catalog, Config{
		TopN:              2,
		HourlyMinimumWage: 10030,
		WonPerUSD:         1350,
		Clock:             time.Now,
	})

	result, err := engine.Evaluate(validRaw())
	require.NoError(t, err)

	assert.Len(t, result.Pathways, 2)
	assert.Equal(t, 5, result.Meta.TotalPathwaysEvaluated,
		"meta counts evaluated pathways, not returned ones")
}

func TestSwapCatalog_TakesEffectAtomically(t *testing.T) {
	engine := testEngine(testCatalog())

	before, err := engine.Evaluate(validRaw())
	require.NoError(t, err)
	require.NotEmpty(t, before.Pathways)

	replacement := testCatalog()
	replacement.Version = "v2"
	replacement.Entries = replacement.Entries[:1] // D-4 only
	engine.SwapCatalog(replacement)

	after, err := engine.Evaluate(validRaw())
	require.NoError(t, err)

	assert.Equal(t, 1, after.Meta.TotalPathwaysEvaluated+after.Meta.HardFilteredOut)
	assert.Equal(t, "v2", engine.Catalog().Version)
}

func TestEvaluate_TimestampComesFromClock(t *testing.T) {
	engine := testEngine(testCatalog())

	result, err := engine.Evaluate(validRaw())
	require.NoError(t, err)

	assert.Equal(t,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), result.Meta.Timestamp)
}
