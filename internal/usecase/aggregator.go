package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/merge"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// Facade states, also used as cache outcome metric labels.
const (
	StateCacheHit          = "CACHE_HIT"
	StateCacheMiss         = "CACHE_MISS"
	StateMerge             = "MERGE"
	StateCacheStore        = "CACHE_STORE"
	StateStaleCacheRead    = "STALE_CACHE_READ"
	StateSyntheticFallback = "SYNTHETIC_FALLBACK"
)

// AggregatorConfig tunes the facade.
type AggregatorConfig struct {
	// RequireLive forbids the synthetic fallback.
	RequireLive   bool
	FanoutTimeout time.Duration
}

// Aggregator is the snapshot facade: cache lookup, concurrent provider
// fan-out, merge, scoring, store and the stale/synthetic fallback chain.
type Aggregator struct {
	providers []domrepo.ProviderClient
	policy    *svccache.Policy
	merger    *merge.Engine
	scorer    domsvc.HealthScorer
	valuator  domsvc.Valuator
	fixtures  domsvc.FixtureGenerator
	publisher domrepo.SnapshotPublisher
	archive   domrepo.SnapshotArchive
	metrics   domrepo.Metrics
	cfg       AggregatorConfig
	log       *applogger.Logger

	group singleflight.Group
}

// AggregatorOption sets an optional collaborator.
type AggregatorOption func(*Aggregator)

// WithFixtures enables the synthetic fallback when RequireLive is false.
func WithFixtures(g domsvc.FixtureGenerator) AggregatorOption {
	return func(a *Aggregator) { a.fixtures = g }
}

func WithPublisher(p domrepo.SnapshotPublisher) AggregatorOption {
	return func(a *Aggregator) { a.publisher = p }
}

func WithArchive(ar domrepo.SnapshotArchive) AggregatorOption {
	return func(a *Aggregator) { a.archive = ar }
}

func WithMerger(m *merge.Engine) AggregatorOption {
	return func(a *Aggregator) { a.merger = m }
}

func NewAggregator(
	providers []domrepo.ProviderClient,
	policy *svccache.Policy,
	scorer domsvc.HealthScorer,
	valuator domsvc.Valuator,
	metrics domrepo.Metrics,
	cfg AggregatorConfig,
	log *applogger.Logger,
	opts ...AggregatorOption,
) *Aggregator {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	if cfg.FanoutTimeout <= 0 {
		cfg.FanoutTimeout = 30 * time.Second
	}
	a := &Aggregator{
		providers: providers,
		policy:    policy,
		merger:    merge.New(nil),
		scorer:    scorer,
		valuator:  valuator,
		metrics:   metrics,
		cfg:       cfg,
		log:       log.With(applogger.String("component", "aggregator")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot returns the snapshot for ticker, from cache when fresh.
func (a *Aggregator) Snapshot(ctx context.Context, ticker string) (*models.Snapshot, error) {
	start := time.Now()
	defer func() { a.metrics.RecordLatency("snapshot", time.Since(start).Seconds()) }()

	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		a.metrics.RecordError(models.ErrorKind(err))
		return nil, err
	}

	if s, ok, err := a.policy.Snapshot(ctx, t); err != nil {
		a.log.Warn("cache read failed", applogger.String("ticker", t), applogger.Error(err))
	} else if ok {
		a.metrics.RecordCacheOutcome(StateCacheHit)
		a.log.Debug("cache hit", applogger.String("ticker", t))
		s.FromCache = true
		return s, nil
	}
	return a.load(ctx, t)
}

// Refresh skips the fresh-cache lookup and always fans out. Fallbacks still
// apply.
func (a *Aggregator) Refresh(ctx context.Context, ticker string) (*models.Snapshot, error) {
	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		a.metrics.RecordError(models.ErrorKind(err))
		return nil, err
	}
	return a.load(ctx, t)
}

// load collapses concurrent misses for the same ticker into one fan-out.
// Each caller gets its own copy of the result.
func (a *Aggregator) load(ctx context.Context, t string) (*models.Snapshot, error) {
	v, err, _ := a.group.Do(t, func() (any, error) {
		return a.fetch(context.WithoutCancel(ctx), t)
	})
	if err != nil {
		a.metrics.RecordError(models.ErrorKind(err))
		return nil, err
	}
	cp := *v.(*models.Snapshot)
	return &cp, nil
}

type fetchResult struct {
	provider models.ProviderID
	op       string
	record   *models.ProviderRecord
	err      error
}

func (a *Aggregator) fetch(ctx context.Context, t string) (*models.Snapshot, error) {
	a.metrics.RecordCacheOutcome(StateCacheMiss)
	a.log.Debug("cache miss", applogger.String("ticker", t))

	records, errs := a.fanOut(ctx, t)

	if len(records) == 0 && len(errs) > 0 && allNotFound(errs) {
		return nil, fmt.Errorf("%s: %w", t, models.ErrTickerNotFound)
	}

	a.metrics.RecordCacheOutcome(StateMerge)
	s := a.merger.Merge(t, records)
	if !s.HasSource(models.PrimaryProvider) || s.Quote.Price == nil {
		cause := errors.Join(errs...)
		if cause == nil {
			cause = errors.New("primary provider returned no price")
		}
		return a.fallback(ctx, t, cause)
	}

	a.derive(&s)
	stored := s
	if err := a.policy.StoreSnapshot(ctx, &stored); err != nil {
		a.log.Warn("cache store failed", applogger.String("ticker", t), applogger.Error(err))
	} else {
		a.metrics.RecordCacheOutcome(StateCacheStore)
	}
	a.metrics.RecordHealthScore(t, s.Health.Total)
	a.emit(ctx, &stored)

	a.log.Info("snapshot refreshed",
		applogger.String("ticker", t),
		applogger.Int("sources", len(s.Sources)),
		applogger.Int("failures", len(errs)),
		applogger.Int("health", s.Health.Total))
	return &s, nil
}

// fanOut runs quote and fundamentals for every provider concurrently and
// waits for all of them. A failure never cancels the others.
func (a *Aggregator) fanOut(ctx context.Context, t string) ([]*models.ProviderRecord, []error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FanoutTimeout)
	defer cancel()

	ch := make(chan fetchResult, len(a.providers)*2)
	var wg sync.WaitGroup
	for _, p := range a.providers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec, err := p.FetchQuote(ctx, t)
			ch <- fetchResult{p.Name(), "quote", rec, err}
		}()
		go func() {
			defer wg.Done()
			rec, err := p.FetchFundamentals(ctx, t)
			ch <- fetchResult{p.Name(), "fundamentals", rec, err}
		}()
	}
	go func() { wg.Wait(); close(ch) }()

	var (
		records []*models.ProviderRecord
		errs    []error
	)
	for r := range ch {
		if r.err != nil {
			a.log.Warn("provider fetch failed",
				applogger.String("provider", string(r.provider)),
				applogger.String("op", r.op),
				applogger.String("ticker", t),
				applogger.String("kind", models.ErrorKind(r.err)),
				applogger.Error(r.err))
			errs = append(errs, r.err)
			continue
		}
		if r.record != nil {
			records = append(records, r.record)
		}
	}
	return records, errs
}

func allNotFound(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, models.ErrTickerNotFound) {
			return false
		}
	}
	return true
}

// fallback serves the last stored snapshot, or in development a synthetic
// one. The synthetic snapshot is never cached.
func (a *Aggregator) fallback(ctx context.Context, t string, cause error) (*models.Snapshot, error) {
	if s, ok, err := a.policy.StaleSnapshot(ctx, t); err == nil && ok {
		a.metrics.RecordCacheOutcome(StateStaleCacheRead)
		a.log.Warn("serving stale snapshot",
			applogger.String("ticker", t),
			applogger.String("fetched_at", s.FetchedAt.Format(time.RFC3339)),
			applogger.Error(cause))
		s.FromCache = true
		s.Stale = true
		return s, nil
	}

	if !a.cfg.RequireLive && a.fixtures != nil {
		a.metrics.RecordCacheOutcome(StateSyntheticFallback)
		a.log.Warn("serving synthetic snapshot", applogger.String("ticker", t), applogger.Error(cause))
		s := a.fixtures.Snapshot(t)
		a.derive(&s)
		return &s, nil
	}

	return nil, fmt.Errorf("%s: %w: %v", t, models.ErrAllProvidersFailed, cause)
}

func (a *Aggregator) derive(s *models.Snapshot) {
	h := a.scorer.Score(&s.FieldSet)
	v := a.valuator.Value(&s.FieldSet, models.NormalizeSector(s.Company.Sector, s.Company.Industry))
	s.Health = &h
	s.Valuation = &v
}

// emit hands a stored snapshot to the optional sinks. Errors are logged only.
func (a *Aggregator) emit(ctx context.Context, s *models.Snapshot) {
	if a.publisher != nil {
		if err := a.publisher.PublishSnapshot(ctx, s); err != nil {
			a.metrics.RecordError("publish")
			a.log.Warn("snapshot event not published", applogger.String("ticker", s.Ticker), applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Append(ctx, s); err != nil {
			a.metrics.RecordError("archive")
			a.log.Warn("snapshot not archived", applogger.String("ticker", s.Ticker), applogger.Error(err))
		}
	}
}
