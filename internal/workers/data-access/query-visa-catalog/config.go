// internal/workers/data-access/query-visa-catalog/config.go
package queryvisacatalog

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
