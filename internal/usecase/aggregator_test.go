package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMissMergesAndStores(t *testing.T) {
	ctx := context.Background()
	m := newMarket()
	metrics := newRecordingMetrics()
	pub := &capturePublisher{}
	agg := newTestAggregator(m, newPolicy(newClock()), metrics, AggregatorConfig{RequireLive: true}, WithPublisher(pub))

	s, err := agg.Snapshot(ctx, "petr4")
	require.NoError(t, err)

	assert.Equal(t, "PETR4", s.Ticker)
	assert.Equal(t, 33.73, *s.Quote.Price)
	assert.Equal(t, 8.63, *s.Fundamentals.PriceEarnings)
	assert.Equal(t, 0.8, *s.Fundamentals.DebtToEquity)
	assert.Equal(t, models.DataQualityReal, s.DataQuality)
	assert.Equal(t, []models.ProviderID{models.ProviderYahoo, models.ProviderBrapi, models.ProviderStatusInvest}, s.Sources)
	assert.False(t, s.FromCache)
	require.NotNil(t, s.Health)
	require.NotNil(t, s.Valuation)
	assert.Equal(t, models.MethodBookValue, s.Valuation.Method)
	assert.Equal(t, models.SectorOilGas, s.Valuation.Details.Sector)

	assert.Equal(t, 1, metrics.state(StateCacheMiss))
	assert.Equal(t, 1, metrics.state(StateCacheStore))
	assert.Equal(t, []string{"PETR4"}, pub.messages())
}

func TestSnapshotHitIsTaggedAndIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newMarket()
	metrics := newRecordingMetrics()
	agg := newTestAggregator(m, newPolicy(newClock()), metrics, AggregatorConfig{RequireLive: true})

	_, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)
	calls := m.yahoo.calls.Load()

	first, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)
	second, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)

	assert.True(t, first.FromCache)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, m.yahoo.calls.Load())
	assert.Equal(t, 2, metrics.state(StateCacheHit))
}

func TestRefreshSkipsFreshCache(t *testing.T) {
	ctx := context.Background()
	m := newMarket()
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{RequireLive: true})

	_, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)
	s, err := agg.Refresh(ctx, "PETR4")
	require.NoError(t, err)

	assert.False(t, s.FromCache)
	assert.Equal(t, int32(4), m.yahoo.calls.Load())
}

func TestSnapshotInvalidTickerNeverReachesProviders(t *testing.T) {
	m := newMarket()
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{RequireLive: true})

	_, err := agg.Snapshot(context.Background(), "PETR")
	assert.ErrorIs(t, err, models.ErrInvalidTicker)
	for _, p := range m.providers() {
		assert.Zero(t, p.calls.Load())
	}
}

func TestSnapshotTickerNotFoundWhenAllProvidersAgree(t *testing.T) {
	m := newMarket()
	for _, p := range m.providers() {
		p := p
		p.err = func(op string) error { return notFound(p.id, op) }
	}
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{}, WithFixtures(fixture.NewGenerator()))

	_, err := agg.Snapshot(context.Background(), "ZZZZ3")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}

func TestSnapshotServesStaleWhenPrimaryFails(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	m := newMarket()
	agg := newTestAggregator(m, newPolicy(clk), newRecordingMetrics(), AggregatorConfig{RequireLive: true})

	fresh, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)

	clk.Advance(16 * time.Minute)
	m.yahoo.quotes = map[string]func(*models.ProviderRecord){}
	m.yahoo.fundamentals = map[string]func(*models.ProviderRecord){}

	s, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)

	assert.True(t, s.Stale)
	assert.True(t, s.FromCache)
	assert.Equal(t, fresh.Quote.Price, s.Quote.Price)
	assert.Equal(t, fresh.FetchedAt, s.FetchedAt)
	assert.Equal(t, models.DataQualityReal, s.DataQuality)
}

func TestSnapshotLiveModeFailsWithoutStale(t *testing.T) {
	m := newMarket()
	m.yahoo.quotes = map[string]func(*models.ProviderRecord){}
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{RequireLive: true}, WithFixtures(fixture.NewGenerator()))

	_, err := agg.Snapshot(context.Background(), "PETR4")
	assert.ErrorIs(t, err, models.ErrAllProvidersFailed)
}

func TestSnapshotDevelopmentModeFallsBackToFixture(t *testing.T) {
	ctx := context.Background()
	m := newMarket()
	m.yahoo.quotes = map[string]func(*models.ProviderRecord){}
	metrics := newRecordingMetrics()
	policy := newPolicy(newClock())
	agg := newTestAggregator(m, policy, metrics, AggregatorConfig{RequireLive: false}, WithFixtures(fixture.NewGenerator()))

	s, err := agg.Snapshot(ctx, "PETR4")
	require.NoError(t, err)

	assert.Equal(t, models.DataQualityMock, s.DataQuality)
	assert.Equal(t, []models.ProviderID{models.ProviderFixture}, s.Sources)
	assert.NotNil(t, s.Health)
	assert.Equal(t, 1, metrics.state(StateSyntheticFallback))

	_, cached, err := policy.Snapshot(ctx, "PETR4")
	require.NoError(t, err)
	assert.False(t, cached, "synthetic snapshots are never cached")
}

func TestSnapshotSlowProviderDoesNotBlockMerge(t *testing.T) {
	m := newMarket()
	m.statusinvest.delay = time.Second
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{RequireLive: true, FanoutTimeout: 50 * time.Millisecond})

	s, err := agg.Snapshot(context.Background(), "PETR4")
	require.NoError(t, err)

	assert.Equal(t, []models.ProviderID{models.ProviderYahoo, models.ProviderBrapi}, s.Sources)
	assert.Nil(t, s.Fundamentals.DebtToEquity)
}

func TestSnapshotConcurrentMissesShareOneFanOut(t *testing.T) {
	m := newMarket()
	m.yahoo.delay = 30 * time.Millisecond
	agg := newTestAggregator(m, newPolicy(newClock()), newRecordingMetrics(), AggregatorConfig{RequireLive: true})

	var wg sync.WaitGroup
	results := make([]*models.Snapshot, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := agg.Snapshot(context.Background(), "PETR4")
			if err == nil {
				results[i] = s
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), m.yahoo.calls.Load())
	for _, s := range results {
		require.NotNil(t, s)
		assert.Equal(t, 33.73, *s.Quote.Price)
	}
}

func TestSnapshotPublishFailureDoesNotFailRequest(t *testing.T) {
	m := newMarket()
	pub := &capturePublisher{err: errors.New("broker down")}
	metrics := newRecordingMetrics()
	agg := newTestAggregator(m, newPolicy(newClock()), metrics, AggregatorConfig{RequireLive: true}, WithPublisher(pub))

	_, err := agg.Snapshot(context.Background(), "PETR4")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.errors["publish"])
}
