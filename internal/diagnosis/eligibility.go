// internal/diagnosis/eligibility.go
package diagnosis

import (
	"jobchaja-workers/internal/models"
)

// FilterEligibility partitions the catalog roots into the evaluable set and a
// hard-filtered-out count. Predicates run in a fixed order with short-circuit
// AND semantics: goal applicability, nationality restriction, age bounds,
// minimum education, minimum fund. A dimension with no predicate is eligible
// by default. This is a binary gate; no partial scoring happens here.
func FilterEligibility(input models.DiagnosisInput, catalog *models.VisaCatalog) (evaluable []models.VisaCatalogEntry, hardFilteredOut int) {
	for _, entry := range catalog.Entries {
		if passesHardPredicates(input, entry) {
			evaluable = append(evaluable, entry)
		} else {
			hardFilteredOut++
		}
	}
	return evaluable, hardFilteredOut
}

func passesHardPredicates(input models.DiagnosisInput, entry models.VisaCatalogEntry) bool {
	if !servesGoal(entry, input.FinalGoal) {
		return false
	}

	elig := entry.Eligibility

	if len(elig.Nationalities) > 0 && !containsString(elig.Nationalities, input.Nationality) {
		return false
	}

	if elig.MinAge != nil && input.Age < *elig.MinAge {
		return false
	}
	if elig.MaxAge != nil && input.Age > *elig.MaxAge {
		return false
	}

	if elig.MinEducation != "" {
		if models.EducationRank[input.EducationLevel] < models.EducationRank[elig.MinEducation] {
			return false
		}
	}

	if elig.MinFund != "" {
		if models.FundRank[input.AvailableFund] < models.FundRank[elig.MinFund] {
			return false
		}
	}

	return true
}

// servesGoal reports whether the entry is offered as a pathway root for the
// applicant's final goal. An empty goal list means the entry serves every goal.
func servesGoal(entry models.VisaCatalogEntry, goal models.FinalGoal) bool {
	if len(entry.Goals) == 0 {
		return true
	}
	for _, g := range entry.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
