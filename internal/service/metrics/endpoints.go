package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fundamentals",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of fundamentals endpoints",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fundamentals",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by fundamentals endpoint and error kind",
		},
		[]string{"endpoint", "kind"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fundamentals",
			Subsystem: "api",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the inbound rate limiter",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors, RateLimited)
	})
}

// Observe records one endpoint call. kind is empty on success.
func Observe(endpoint string, start time.Time, kind string) {
	EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if kind != "" {
		EndpointErrors.WithLabelValues(endpoint, kind).Inc()
	}
}
