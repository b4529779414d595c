// internal/diagnosis/score.go
package diagnosis

import (
	"fmt"
	"math"

	"jobchaja-workers/internal/models"
)

// Score computes the full multiplicative breakdown for one evaluable entry.
// Every multiplier comes from the rule tables keyed by the entry's category;
// a missing table row is a ConfigError, never a silent 1.0 or 0.0.
func Score(input models.DiagnosisInput, entry models.VisaCatalogEntry, rules models.RuleTables) (models.ScoreBreakdown, error) {
	var breakdown models.ScoreBreakdown

	ageM, err := ageMultiplier(input.Age, entry.Category, rules)
	if err != nil {
		return breakdown, err
	}

	natM, err := nationalityMultiplier(input.Nationality, entry.Category, rules)
	if err != nil {
		return breakdown, err
	}

	fundM, err := fundMultiplier(input.AvailableFund, entry.Category, rules)
	if err != nil {
		return breakdown, err
	}

	eduM, err := educationMultiplier(input.EducationLevel, entry.Category, rules)
	if err != nil {
		return breakdown, err
	}

	prioW, err := priorityWeight(input.FinalGoal, input.PriorityPreference, entry.Category, rules)
	if err != nil {
		return breakdown, err
	}

	breakdown = models.ScoreBreakdown{
		Base:                  entry.BaseScore,
		AgeMultiplier:         ageM,
		NationalityMultiplier: natM,
		FundMultiplier:        fundM,
		EducationMultiplier:   eduM,
		PriorityWeight:        prioW,
	}
	return breakdown, nil
}

// FinalScore rounds and clamps the breakdown product into [0, 100].
func FinalScore(breakdown models.ScoreBreakdown) int {
	return clampScore(int(math.Round(breakdown.Product())))
}

// clampScore is idempotent: clamping an already clamped value is a no-op.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func ageMultiplier(age int, category models.VisaCategory, rules models.RuleTables) (float64, error) {
	bands, ok := rules.Age[category]
	if !ok || len(bands) == 0 {
		return 0, missingRow("age", string(category))
	}
	for _, band := range bands {
		if age <= band.MaxAge {
			return band.Multiplier, nil
		}
	}
	// The last band is expected to cover all ages; reaching here means the
	// table is malformed.
	return 0, missingRow("age", fmt.Sprintf("%s (no band covers age %d)", category, age))
}

func nationalityMultiplier(nationality string, category models.VisaCategory, rules models.RuleTables) (float64, error) {
	rule, ok := rules.Nationality[category]
	if !ok {
		return 0, missingRow("nationality", string(category))
	}
	if m, ok := rule.Multipliers[nationality]; ok {
		return m, nil
	}
	if rule.Default <= 0 {
		return 0, missingRow("nationality", fmt.Sprintf("%s (non-positive default)", category))
	}
	return rule.Default, nil
}

func fundMultiplier(fund models.FundBucket, category models.VisaCategory, rules models.RuleTables) (float64, error) {
	row, ok := rules.Fund[category]
	if !ok {
		return 0, missingRow("fund", string(category))
	}
	m, ok := row[fund]
	if !ok {
		return 0, missingRow("fund", fmt.Sprintf("%s/%s", category, fund))
	}
	return m, nil
}

func educationMultiplier(level models.EducationLevel, category models.VisaCategory, rules models.RuleTables) (float64, error) {
	row, ok := rules.Education[category]
	if !ok {
		return 0, missingRow("education", string(category))
	}
	m, ok := row[level]
	if !ok {
		return 0, missingRow("education", fmt.Sprintf("%s/%s", category, level))
	}
	return m, nil
}

// priorityWeight is the product of the goal-fit and priority-bias rows. It is
// a pure bias layer: for a fixed goal and priority it is a deterministic
// function of the category, so pathways with identical base-and-multiplier
// products keep their relative order unless the priority itself changes.
func priorityWeight(goal models.FinalGoal, priority models.PriorityPreference, category models.VisaCategory, rules models.RuleTables) (float64, error) {
	goalRow, ok := rules.GoalFit[goal]
	if !ok {
		return 0, missingRow("goalFit", string(goal))
	}
	goalM, ok := goalRow[category]
	if !ok {
		return 0, missingRow("goalFit", fmt.Sprintf("%s/%s", goal, category))
	}

	prioRow, ok := rules.Priority[priority]
	if !ok {
		return 0, missingRow("priority", string(priority))
	}
	prioM, ok := prioRow[category]
	if !ok {
		return 0, missingRow("priority", fmt.Sprintf("%s/%s", priority, category))
	}

	return goalM * prioM, nil
}

func missingRow(table, key string) error {
	return &ConfigError{
		Subject: "rule-table",
		Detail:  fmt.Sprintf("missing %s row for %s", table, key),
	}
}
