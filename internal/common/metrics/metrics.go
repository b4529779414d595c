// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	DiagnosisEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_evaluations_total",
			Help: "Total number of pathway evaluations by outcome",
		},
		[]string{"outcome"}, // ok, empty, validation_error, config_error
	)

	DiagnosisCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_cache_requests_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	DiagnosisPathwaysReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnosis_pathways_returned",
			Help:    "Number of pathways returned per evaluation",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Visa catalog reloads by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)
