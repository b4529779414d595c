// internal/models/diagnosis.go
package models

import "time"

// EducationLevel is the canonical education attainment of an applicant.
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "고졸 이하"
	EducationAssociate  EducationLevel = "전문학사"
	EducationBachelor   EducationLevel = "학사"
	EducationMaster     EducationLevel = "석사"
	EducationDoctorate  EducationLevel = "박사"
)

// EducationRank orders levels from lowest to highest for minimum checks.
var EducationRank = map[EducationLevel]int{
	EducationHighSchool: 0,
	EducationAssociate:  1,
	EducationBachelor:   2,
	EducationMaster:     3,
	EducationDoctorate:  4,
}

// FundBucket is the annual fund the applicant can commit, in KRW buckets.
type FundBucket string

const (
	FundUnder300   FundBucket = "300만원 미만"
	Fund300To1000  FundBucket = "300-1000만원"
	Fund1000To3000 FundBucket = "1000-3000만원"
	FundOver3000   FundBucket = "3000만원 이상"
)

// FundRank orders buckets from lowest to highest for minimum checks.
var FundRank = map[FundBucket]int{
	FundUnder300:   0,
	Fund300To1000:  1,
	Fund1000To3000: 2,
	FundOver3000:   3,
}

// FinalGoal is what the applicant ultimately wants out of a pathway.
type FinalGoal string

const (
	GoalLanguageStudy FinalGoal = "어학연수"
	GoalShortTermWork FinalGoal = "단기 취업"
	GoalLongTermWork  FinalGoal = "장기 취업"
	GoalDegree        FinalGoal = "학위 취득"
	GoalResidency     FinalGoal = "영주권"
)

// PriorityPreference is the dimension the applicant wants optimized.
type PriorityPreference string

const (
	PrioritySpeed       PriorityPreference = "속도"
	PriorityCost        PriorityPreference = "비용"
	PrioritySuccessRate PriorityPreference = "성공률"
	PriorityFieldMatch  PriorityPreference = "분야 적합성"
)

// DiagnosisInput is the validated six-field applicant profile.
// Immutable once built by the validator; lives only for one evaluation.
type DiagnosisInput struct {
	Nationality        string             `json:"nationality"` // ISO 3166-1 alpha-2 after normalization
	Age                int                `json:"age"`
	EducationLevel     EducationLevel     `json:"educationLevel"`
	AvailableFund      FundBucket         `json:"availableAnnualFund"`
	FinalGoal          FinalGoal          `json:"finalGoal"`
	PriorityPreference PriorityPreference `json:"priorityPreference"`
}

// ScoreBreakdown records every factor of a pathway's feasibility score.
// finalScore = clamp(round(base*age*nationality*fund*education*priority), 0, 100).
type ScoreBreakdown struct {
	Base                  float64 `json:"base"`
	AgeMultiplier         float64 `json:"ageMultiplier"`
	NationalityMultiplier float64 `json:"nationalityMultiplier"`
	FundMultiplier        float64 `json:"fundMultiplier"`
	EducationMultiplier   float64 `json:"educationMultiplier"`
	PriorityWeight        float64 `json:"priorityWeight"`
}

// Product returns the raw (unclamped, unrounded) score.
func (b ScoreBreakdown) Product() float64 {
	return b.Base * b.AgeMultiplier * b.NationalityMultiplier *
		b.FundMultiplier * b.EducationMultiplier * b.PriorityWeight
}

// VisaChainSegment is one ordered step in a pathway's visa chain.
type VisaChainSegment struct {
	VisaCode      string `json:"visaCode"`
	DurationLabel string `json:"durationLabel"` // e.g. "2년"
	Months        int    `json:"months"`
}

// Milestone is an ordered checkpoint on a pathway timeline.
// WeeklyHours and EstimatedMonthlyIncome are set only when CanWorkPartTime.
type Milestone struct {
	Order                  int    `json:"order"`
	MonthFromStart         int    `json:"monthFromStart"`
	NameKo                 string `json:"nameKo"`
	Description            string `json:"description"`
	VisaStatus             string `json:"visaStatus"` // visa code or "none"
	CanWorkPartTime        bool   `json:"canWorkPartTime"`
	WeeklyHours            int    `json:"weeklyHours,omitempty"`
	EstimatedMonthlyIncome int    `json:"estimatedMonthlyIncome,omitempty"`
}

// ActionType is the fixed taxonomy for recommended next steps.
type ActionType string

const (
	ActionDocumentPrep      ActionType = "document-prep"
	ActionProgramEnrollment ActionType = "program-enrollment"
	ActionConsultation      ActionType = "consultation"
	ActionApplication       ActionType = "application"
)

// NextStep is one recommended action, ordered by urgency.
type NextStep struct {
	NameKo      string     `json:"nameKo"`
	Description string     `json:"description"`
	ActionType  ActionType `json:"actionType"`
	URL         string     `json:"url,omitempty"`
}

// RecommendedPathway is one fully composed, scored and labeled pathway.
// Built once per evaluation and never mutated afterwards.
type RecommendedPathway struct {
	ID               string             `json:"pathwayId"`
	NameKo           string             `json:"nameKo"`
	NameEn           string             `json:"nameEn"`
	Description      string             `json:"description"`
	ScoreBreakdown   ScoreBreakdown     `json:"scoreBreakdown"`
	FinalScore       int                `json:"finalScore"`
	FeasibilityLabel string             `json:"feasibilityLabel"`
	VisaChain        []VisaChainSegment `json:"visaChain"`
	Milestones       []Milestone        `json:"milestones"`
	EstimatedMonths  int                `json:"estimatedMonths"`
	EstimatedCostWon int                `json:"estimatedCostWon"`
	EstimatedCostUSD int                `json:"estimatedCostUSD"`
	NextSteps        []NextStep         `json:"nextSteps"`
	Note             string             `json:"note,omitempty"`
}

// DiagnosisMeta carries the evaluation counters and assembly timestamp.
// TotalPathwaysEvaluated+HardFilteredOut always equals the catalog size.
type DiagnosisMeta struct {
	TotalPathwaysEvaluated int       `json:"totalPathwaysEvaluated"`
	HardFilteredOut        int       `json:"hardFilteredOut"`
	Timestamp              time.Time `json:"timestamp"`
}

// DiagnosisResult is the top-level object every diagnosis UI consumes.
type DiagnosisResult struct {
	UserInput DiagnosisInput       `json:"userInput"`
	Pathways  []RecommendedPathway `json:"pathways"`
	Meta      DiagnosisMeta        `json:"meta"`
}
