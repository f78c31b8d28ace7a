package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefilter_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulsefilter_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// FilterOutcomes counts engine runs by output format and result.
	// result is "ok" or the error kind returned by filter.ErrorKind.
	FilterOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefilter_filter_outcomes_total",
		Help: "Total number of output filter runs by format and result",
	}, []string{"format", "result"})

	// FilterModes splits successful responses into "passthrough" (no
	// filter parameters, full CSV) and "filtered".
	FilterModes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefilter_filter_modes_total",
		Help: "Successful responses by whether any filter parameter was applied",
	}, []string{"mode"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsefilter_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})

	RecoveredPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsefilter_recovered_panics_total",
		Help: "Handler panics turned into 500 responses",
	})

	IngestedFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefilter_ingested_files_total",
		Help: "Total number of trade files handled by ingestion",
	}, []string{"status"})

	IngestedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsefilter_ingested_rows_total",
		Help: "Total number of trade rows persisted",
	})
)

// Ingestion file statuses.
const (
	ModePassthrough = "passthrough"
	ModeFiltered    = "filtered"

	FileIngested = "ingested"
	FileSkipped  = "skipped"
	FileFailed   = "failed"
)
