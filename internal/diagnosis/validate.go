// internal/diagnosis/validate.go
package diagnosis

import (
	"strings"

	"jobchaja-workers/internal/models"
)

const (
	minAge = 15
	maxAge = 99
)

// RawDiagnosisInput is the untyped six-field payload as submitted by a client.
type RawDiagnosisInput struct {
	Nationality        string `json:"nationality"`
	Age                int    `json:"age"`
	EducationLevel     string `json:"educationLevel"`
	AvailableFund      string `json:"availableAnnualFund"`
	FinalGoal          string `json:"finalGoal"`
	PriorityPreference string `json:"priorityPreference"`
}

// Spelling variants observed from clients map onto the canonical option.
// Anything not in these tables and not already canonical is rejected.
var educationAliases = map[string]models.EducationLevel{
	"고졸":          models.EducationHighSchool,
	"고등학교 졸업":     models.EducationHighSchool,
	"고등학교 졸업 이하": models.EducationHighSchool,
	"전문대 졸업":      models.EducationAssociate,
	"대졸":          models.EducationBachelor,
	"대학교 졸업":      models.EducationBachelor,
	"석사 졸업":       models.EducationMaster,
	"박사 졸업":       models.EducationDoctorate,
}

var goalAliases = map[string]models.FinalGoal{
	"어학 연수": models.GoalLanguageStudy,
	"단기취업":  models.GoalShortTermWork,
	"장기취업":  models.GoalLongTermWork,
	"학위취득":  models.GoalDegree,
	"유학":    models.GoalDegree,
	"영주":    models.GoalResidency,
}

var priorityAliases = map[string]models.PriorityPreference{
	"빠른 속도": models.PrioritySpeed,
	"저비용":   models.PriorityCost,
	"성공 확률": models.PrioritySuccessRate,
	"분야적합성": models.PriorityFieldMatch,
	"분야 적합": models.PriorityFieldMatch,
}

var educationOptions = []string{
	string(models.EducationHighSchool),
	string(models.EducationAssociate),
	string(models.EducationBachelor),
	string(models.EducationMaster),
	string(models.EducationDoctorate),
}

var fundOptions = []string{
	string(models.FundUnder300),
	string(models.Fund300To1000),
	string(models.Fund1000To3000),
	string(models.FundOver3000),
}

var goalOptions = []string{
	string(models.GoalLanguageStudy),
	string(models.GoalShortTermWork),
	string(models.GoalLongTermWork),
	string(models.GoalDegree),
	string(models.GoalResidency),
}

var priorityOptions = []string{
	string(models.PrioritySpeed),
	string(models.PriorityCost),
	string(models.PrioritySuccessRate),
	string(models.PriorityFieldMatch),
}

// ValidateInput normalizes a raw submission into a typed DiagnosisInput or
// fails with a ValidationError / UnknownOptionError naming the field.
// It has no side effects and never partially populates the result.
func ValidateInput(raw *RawDiagnosisInput, catalog *models.VisaCatalog) (models.DiagnosisInput, error) {
	var input models.DiagnosisInput

	if raw == nil {
		return input, &ValidationError{Field: "input", Message: "input cannot be nil"}
	}

	nationality, err := normalizeNationality(raw.Nationality, catalog)
	if err != nil {
		return input, err
	}

	if raw.Age < minAge || raw.Age > maxAge {
		return input, &ValidationError{Field: "age", Message: "age must be between 15 and 99"}
	}

	education, err := normalizeEducation(raw.EducationLevel)
	if err != nil {
		return input, err
	}

	fund, err := normalizeFund(raw.AvailableFund)
	if err != nil {
		return input, err
	}

	goal, err := normalizeGoal(raw.FinalGoal)
	if err != nil {
		return input, err
	}

	priority, err := normalizePriority(raw.PriorityPreference)
	if err != nil {
		return input, err
	}

	input = models.DiagnosisInput{
		Nationality:        nationality,
		Age:                raw.Age,
		EducationLevel:     education,
		AvailableFund:      fund,
		FinalGoal:          goal,
		PriorityPreference: priority,
	}
	return input, nil
}

func normalizeNationality(value string, catalog *models.VisaCatalog) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: "nationality", Message: "nationality is required"}
	}

	// Aliases cover English names, Korean names and lowercase ISO codes.
	if iso, ok := catalog.NationalityAliases[v]; ok {
		v = iso
	} else if iso, ok := catalog.NationalityAliases[strings.ToLower(v)]; ok {
		v = iso
	} else {
		v = strings.ToUpper(v)
	}

	for _, code := range catalog.Nationalities {
		if code == v {
			return v, nil
		}
	}
	return "", &UnknownOptionError{Field: "nationality", Value: value, Allowed: catalog.Nationalities}
}

func normalizeEducation(value string) (models.EducationLevel, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: "educationLevel", Message: "educationLevel is required"}
	}
	if level, ok := educationAliases[v]; ok {
		return level, nil
	}
	if _, ok := models.EducationRank[models.EducationLevel(v)]; ok {
		return models.EducationLevel(v), nil
	}
	return "", &UnknownOptionError{Field: "educationLevel", Value: value, Allowed: educationOptions}
}

func normalizeFund(value string) (models.FundBucket, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: "availableAnnualFund", Message: "availableAnnualFund is required"}
	}
	// Clients send both hyphen and en-dash ranges, with or without spaces.
	// Canonical buckets keep their internal space, so compare stripped forms.
	v = strings.ReplaceAll(v, "–", "-")
	v = strings.ReplaceAll(v, "—", "-")
	stripped := strings.ReplaceAll(v, " ", "")
	for bucket := range models.FundRank {
		if stripped == strings.ReplaceAll(string(bucket), " ", "") {
			return bucket, nil
		}
	}
	return "", &UnknownOptionError{Field: "availableAnnualFund", Value: value, Allowed: fundOptions}
}

func normalizeGoal(value string) (models.FinalGoal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: "finalGoal", Message: "finalGoal is required"}
	}
	if goal, ok := goalAliases[v]; ok {
		return goal, nil
	}
	for _, opt := range goalOptions {
		if v == opt {
			return models.FinalGoal(v), nil
		}
	}
	return "", &UnknownOptionError{Field: "finalGoal", Value: value, Allowed: goalOptions}
}

func normalizePriority(value string) (models.PriorityPreference, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: "priorityPreference", Message: "priorityPreference is required"}
	}
	if p, ok := priorityAliases[v]; ok {
		return p, nil
	}
	for _, opt := range priorityOptions {
		if v == opt {
			return models.PriorityPreference(v), nil
		}
	}
	return "", &UnknownOptionError{Field: "priorityPreference", Value: value, Allowed: priorityOptions}
}
