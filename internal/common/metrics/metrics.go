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

	// PageFetches counts page fetches by outcome: ok, bad_status,
	// transport_error, invalid_url.
	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_page_fetches_total",
			Help: "Total number of page fetches by outcome",
		},
		[]string{"outcome"},
	)

	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_page_fetch_duration_seconds",
			Help:    "Duration of page fetches that returned a response",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// DeepScanProbes counts sub-path probes by result: hit, empty, skipped.
	DeepScanProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_deep_scan_probes_total",
			Help: "Total number of deep-scan sub-path probes by result",
		},
		[]string{"result"},
	)

	PhoneRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_phone_rejections_total",
			Help: "Phone candidates dropped by the normalizer, by reason",
		},
		[]string{"reason"},
	)

	// ContactTasks counts orchestrator tasks by result tag ("ok" or an error code).
	ContactTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_contact_tasks_total",
			Help: "Total number of per-result contact tasks by outcome",
		},
		[]string{"outcome"},
	)

	HarvestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_query_duration_seconds",
			Help:    "Duration of a full query run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)
