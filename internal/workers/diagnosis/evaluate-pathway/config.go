// internal/workers/diagnosis/evaluate-pathway/config.go
package evaluatepathway

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: time.Hour,
	}
}
