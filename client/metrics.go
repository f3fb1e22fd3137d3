package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "annotator_client",
			Name:      "requests_total",
			Help:      "API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "annotator_client",
			Name:      "request_duration_seconds",
			Help:      "API call latency, failures included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observeRequest(op, outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
