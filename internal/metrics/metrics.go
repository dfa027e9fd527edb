// Package metrics provides Prometheus metrics for satellite.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobRunsTotal counts job runs by outcome.
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "satellite",
			Name:      "job_runs_total",
			Help:      "Total number of job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "satellite",
			Name:      "job_duration_seconds",
			Help:      "Duration of job runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "satellite",
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "satellite",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ArticlesImported counts (url, ticker) rows written per service.
	ArticlesImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "satellite",
			Name:      "articles_imported_total",
			Help:      "Total number of article rows imported",
		},
		[]string{"service"},
	)

	FeedErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "satellite",
			Name:      "feed_errors_total",
			Help:      "Total number of failed feed fetches",
		},
		[]string{"service"},
	)
)

// RecordJob records a finished job run.
func RecordJob(job string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordRequest records a served API request.
func RecordRequest(route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func RecordImport(service string, rows int) {
	ArticlesImported.WithLabelValues(service).Add(float64(rows))
}

func RecordFeedError(service string) {
	FeedErrorsTotal.WithLabelValues(service).Inc()
}
