package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/analytics"
	pcache "github.com/MatheusMartinho/gambit-sub001/pkg/cache"
)

func f(v float64) *float64 { return &v }

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func newPolicy(clk *clock) *svccache.Policy {
	opts := []pcache.MemoryOption{pcache.WithMemoryCleanup(0), pcache.WithMemoryClock(clk.Now)}
	return svccache.NewPolicy(
		pcache.NewMemoryStore[*models.Snapshot](opts...),
		pcache.NewMemoryStore[*models.PeerReport](opts...),
		pcache.NewMemoryStore[*models.HistoricalSeries](opts...),
		svccache.TTLs{Snapshot: 15 * time.Minute, Peers: 15 * time.Minute, Historical: 10 * time.Minute},
	)
}

var errDown = errors.New("connection refused")

func unavailable(id models.ProviderID, op string) error {
	return models.NewProviderError(id, op, models.ErrProviderUnavailable, 503, errDown)
}

func notFound(id models.ProviderID, op string) error {
	return models.NewProviderError(id, op, models.ErrTickerNotFound, 404, nil)
}

// fakeProvider answers from per-ticker tables; a missing ticker fails with err.
type fakeProvider struct {
	id           models.ProviderID
	quotes       map[string]func(*models.ProviderRecord)
	fundamentals map[string]func(*models.ProviderRecord)
	bars         map[string][]models.HistoricalBar
	err          func(op string) error
	delay        time.Duration
	calls        atomic.Int32
}

func (p *fakeProvider) Name() models.ProviderID { return p.id }

func (p *fakeProvider) fail(op string) error {
	if p.err != nil {
		return p.err(op)
	}
	return unavailable(p.id, op)
}

func (p *fakeProvider) record(ctx context.Context, op, ticker string, table map[string]func(*models.ProviderRecord)) (*models.ProviderRecord, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, models.NewProviderError(p.id, op, models.ErrProviderUnavailable, 0, ctx.Err())
		}
	}
	fill, ok := table[ticker]
	if !ok {
		return nil, p.fail(op)
	}
	r := &models.ProviderRecord{Provider: p.id, Ticker: ticker, FetchedAt: time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)}
	fill(r)
	return r, nil
}

func (p *fakeProvider) FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	return p.record(ctx, "quote", ticker, p.quotes)
}

func (p *fakeProvider) FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	return p.record(ctx, "fundamentals", ticker, p.fundamentals)
}

func (p *fakeProvider) FetchHistorical(_ context.Context, ticker string, _ models.Range, _ models.Interval) ([]models.HistoricalBar, error) {
	p.calls.Add(1)
	bars, ok := p.bars[ticker]
	if !ok {
		return nil, p.fail("historical")
	}
	return bars, nil
}

// recordingMetrics counts cache outcomes by state.
type recordingMetrics struct {
	mu     sync.Mutex
	states map[string]int
	errors map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{states: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordProviderFetch(string, string, string, float64) {}
func (m *recordingMetrics) RecordLatency(string, float64)                       {}
func (m *recordingMetrics) RecordHealthScore(string, int)                       {}

func (m *recordingMetrics) RecordCacheOutcome(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state]++
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *recordingMetrics) state(s string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[s]
}

type capturePublisher struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (p *capturePublisher) PublishSnapshot(_ context.Context, s *models.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, s.Ticker)
	return p.err
}

func (p *capturePublisher) PublishInvalidation(_ context.Context, ticker string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, "invalidate:"+ticker)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sent...)
}

// market is a three-provider setup with PETR4 fully covered.
type market struct {
	yahoo, brapi, statusinvest *fakeProvider
}

func newMarket() *market {
	return &market{
		yahoo: &fakeProvider{
			id: models.ProviderYahoo,
			quotes: map[string]func(*models.ProviderRecord){
				"PETR4": func(r *models.ProviderRecord) { r.Quote.Price = f(33.73) },
			},
			fundamentals: map[string]func(*models.ProviderRecord){
				"PETR4": func(r *models.ProviderRecord) {
					r.Fundamentals.Beta = f(1.2)
					r.Company.Sector = "Energy"
				},
			},
		},
		brapi: &fakeProvider{
			id: models.ProviderBrapi,
			quotes: map[string]func(*models.ProviderRecord){
				"PETR4": func(r *models.ProviderRecord) { r.Quote.Price = f(33.70) },
			},
			fundamentals: map[string]func(*models.ProviderRecord){
				"PETR4": func(r *models.ProviderRecord) {
					r.Fundamentals.PriceEarnings = f(8.63)
					r.Fundamentals.BookValuePerShare = f(30)
					r.Fundamentals.ROE = f(22)
				},
			},
		},
		statusinvest: &fakeProvider{
			id: models.ProviderStatusInvest,
			fundamentals: map[string]func(*models.ProviderRecord){
				"PETR4": func(r *models.ProviderRecord) {
					r.Fundamentals.PriceEarnings = f(9.1)
					r.Fundamentals.DebtToEquity = f(0.8)
				},
			},
			quotes: map[string]func(*models.ProviderRecord){},
		},
	}
}

func (m *market) providers() []*fakeProvider {
	return []*fakeProvider{m.yahoo, m.brapi, m.statusinvest}
}

func newTestAggregator(m *market, policy *svccache.Policy, metrics *recordingMetrics, cfg AggregatorConfig, opts ...AggregatorOption) *Aggregator {
	return NewAggregator(
		asClients(m.providers()),
		policy,
		analytics.Scorer{},
		analytics.BookValuator{},
		metrics,
		cfg,
		nil,
		opts...,
	)
}

func asClients(ps []*fakeProvider) []domrepo.ProviderClient {
	out := make([]domrepo.ProviderClient, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
