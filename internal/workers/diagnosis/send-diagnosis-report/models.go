// internal/workers/diagnosis/send-diagnosis-report/models.go
package senddiagnosisreport

import (
	"time"

	"jobchaja-workers/internal/models"
)

type Input struct {
	UserID  string                  `json:"userId,omitempty"`
	Email   string                  `json:"email,omitempty"`
	Phone   string                  `json:"phone,omitempty"`
	Channel string                  `json:"channel,omitempty"` // "email", "sms" or "both"
	Result  *models.DiagnosisResult `json:"diagnosisResult"`
}

type Output struct {
	ReportID string    `json:"reportId"`
	Channels []string  `json:"channels"`
	SentAt   time.Time `json:"sentAt"`
}
