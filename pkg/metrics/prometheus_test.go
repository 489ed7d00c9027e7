package metrics

import (
	"testing"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var _ repository.Metrics = (*Recorder)(nil)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordProviderFetch("yahoo", "quote", "ok", 0.2)
	r.RecordProviderFetch("yahoo", "quote", "ok", 0.3)
	r.RecordProviderFetch("brapi", "fundamentals", "unavailable", 1.1)
	r.RecordCacheOutcome("CACHE_HIT")
	r.RecordCacheOutcome("CACHE_HIT")
	r.RecordCacheOutcome("STALE_CACHE_READ")
	r.RecordError("not_found")
	r.RecordLatency("snapshot", 0.4)
	r.RecordHealthScore("PETR4", 72)
	r.RecordHealthScore("PETR4", 80)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerFetches.WithLabelValues("yahoo", "quote", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerFetches.WithLabelValues("brapi", "fundamentals", "unavailable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheOutcomes.WithLabelValues("CACHE_HIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheOutcomes.WithLabelValues("STALE_CACHE_READ")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("not_found")))
	assert.Equal(t, 80.0, testutil.ToFloat64(r.healthScore.WithLabelValues("PETR4")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.providerLatency))
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}
