// internal/workers/diagnosis/send-diagnosis-report/config.go
package senddiagnosisreport

import "time"

type Config struct {
	Timeout      time.Duration
	FromEmail    string
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		FromEmail:    "no-reply@jobchaja.com",
		EmailEnabled: true,
		SMSEnabled:   false,
	}
}
