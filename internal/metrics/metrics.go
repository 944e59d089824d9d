// Package metrics exposes Prometheus collectors for the argus server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "argus_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_pass_duration_seconds",
			Help:    "Duration of one parse and render pass",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	PassFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_pass_failures_total",
			Help: "Passes that failed and kept the previous map",
		},
	)

	ActiveWorkspaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "argus_active_workspaces",
			Help: "Number of live workspaces",
		},
	)

	ImportJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_import_jobs_total",
			Help: "Finished import jobs by final status",
		},
		[]string{"status"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "argus_import_queue_depth",
			Help: "Import jobs waiting for a worker",
		},
	)
)
