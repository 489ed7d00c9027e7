package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerFetches *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	cacheOutcomes   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	healthScore     *prometheus.GaugeVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		providerFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_provider_fetches_total",
				Help: "Provider fetches by provider, operation and result",
			},
			[]string{"provider", "op", "result"},
		),
		providerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundamentals_provider_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "op"},
		),
		cacheOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_cache_outcomes_total",
				Help: "Aggregation state transitions (CACHE_HIT, CACHE_MISS, STALE_CACHE_READ, ...)",
			},
			[]string{"state"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundamentals_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		healthScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundamentals_health_score",
				Help: "Last computed health score for a ticker",
			},
			[]string{"ticker"},
		),
	}
}

// RecordProviderFetch records one provider call and its duration.
func (r *Recorder) RecordProviderFetch(provider, op, result string, seconds float64) {
	r.providerFetches.WithLabelValues(provider, op, result).Inc()
	r.providerLatency.WithLabelValues(provider, op).Observe(seconds)
}

// RecordCacheOutcome records an aggregation state.
func (r *Recorder) RecordCacheOutcome(state string) {
	r.cacheOutcomes.WithLabelValues(state).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordHealthScore records the last health score for a ticker.
func (r *Recorder) RecordHealthScore(ticker string, total int) {
	r.healthScore.WithLabelValues(ticker).Set(float64(total))
}
