package google

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "google_api_calls_total",
		Help: "Calls to Google OAuth and Gmail endpoints by operation and outcome.",
	}, []string{"operation", "outcome"})

	apiCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "google_api_call_duration_seconds",
		Help:    "Latency of calls to Google OAuth and Gmail endpoints.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func observe(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	apiCallsTotal.WithLabelValues(operation, outcome).Inc()
	apiCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
