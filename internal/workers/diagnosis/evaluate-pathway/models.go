// internal/workers/diagnosis/evaluate-pathway/models.go
package evaluatepathway

import "jobchaja-workers/internal/models"

type Input struct {
	UserID             string `json:"userId,omitempty"`
	Nationality        string `json:"nationality"`
	Age                int    `json:"age"`
	EducationLevel     string `json:"educationLevel"`
	AvailableFund      string `json:"availableAnnualFund"`
	FinalGoal          string `json:"finalGoal"`
	PriorityPreference string `json:"priorityPreference"`
	SkipCache          bool   `json:"skipCache,omitempty"`
}

type Output struct {
	Result *models.DiagnosisResult `json:"diagnosisResult"`
	Cached bool                    `json:"cached"`
}
