package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// HistoricalUseCase serves price history. Providers are tried in order and
// the first non-empty series wins.
type HistoricalUseCase struct {
	providers   []domrepo.ProviderClient
	policy      *svccache.Policy
	fixtures    domsvc.FixtureGenerator
	requireLive bool
	metrics     domrepo.Metrics
	log         *applogger.Logger
	now         func() time.Time
}

func NewHistoricalUseCase(providers []domrepo.ProviderClient, policy *svccache.Policy, metrics domrepo.Metrics, log *applogger.Logger, requireLive bool, fixtures domsvc.FixtureGenerator) *HistoricalUseCase {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &HistoricalUseCase{
		providers:   providers,
		policy:      policy,
		fixtures:    fixtures,
		requireLive: requireLive,
		metrics:     metrics,
		log:         log.With(applogger.String("component", "historical")),
		now:         time.Now,
	}
}

func (uc *HistoricalUseCase) Historical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) (*models.HistoricalSeries, error) {
	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if h, ok, err := uc.policy.Historical(ctx, t, rng, interval); err == nil && ok {
		uc.metrics.RecordCacheOutcome(StateCacheHit)
		h.FromCache = true
		return h, nil
	}
	uc.metrics.RecordCacheOutcome(StateCacheMiss)

	var errs []error
	for _, p := range uc.providers {
		bars, err := p.FetchHistorical(ctx, t, rng, interval)
		if err != nil {
			uc.log.Warn("historical fetch failed",
				applogger.String("provider", string(p.Name())),
				applogger.String("ticker", t),
				applogger.String("kind", models.ErrorKind(err)),
				applogger.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(bars) == 0 {
			continue
		}
		series := &models.HistoricalSeries{
			Ticker:      t,
			Range:       rng,
			Interval:    interval,
			Source:      p.Name(),
			DataQuality: models.DataQualityReal,
			Bars:        bars,
			FetchedAt:   uc.now().UTC(),
		}
		stored := *series
		if err := uc.policy.StoreHistorical(ctx, &stored); err != nil {
			uc.log.Warn("historical cache store failed", applogger.String("ticker", t), applogger.Error(err))
		} else {
			uc.metrics.RecordCacheOutcome(StateCacheStore)
		}
		return series, nil
	}

	if len(errs) == len(uc.providers) && len(errs) > 0 && allNotFound(errs) {
		return nil, fmt.Errorf("%s: %w", t, models.ErrTickerNotFound)
	}
	if !uc.requireLive && uc.fixtures != nil {
		uc.metrics.RecordCacheOutcome(StateSyntheticFallback)
		uc.log.Warn("serving synthetic history", applogger.String("ticker", t))
		return &models.HistoricalSeries{
			Ticker:      t,
			Range:       rng,
			Interval:    interval,
			Source:      models.ProviderFixture,
			DataQuality: models.DataQualityMock,
			Bars:        uc.fixtures.Historical(t, rng, interval),
			FetchedAt:   uc.now().UTC(),
		}, nil
	}
	return nil, fmt.Errorf("%s: %w: %v", t, models.ErrAllProvidersFailed, errors.Join(errs...))
}
