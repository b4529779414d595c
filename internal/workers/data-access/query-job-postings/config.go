// internal/workers/data-access/query-job-postings/config.go
package queryjobpostings

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		DefaultIndex: "job-postings",
	}
}
