package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// Refresher is satisfied by *Aggregator.
type Refresher interface {
	Refresh(ctx context.Context, ticker string) (*models.Snapshot, error)
}

// Warmer refreshes a watchlist on a cron schedule so those tickers are
// served from cache.
type Warmer struct {
	refresher Refresher
	tickers   []string
	schedule  string
	timeout   time.Duration
	cron      *cron.Cron
	log       *applogger.Logger
}

func NewWarmer(refresher Refresher, schedule string, tickers []string, log *applogger.Logger) *Warmer {
	if log == nil {
		log = applogger.Nop()
	}
	return &Warmer{
		refresher: refresher,
		tickers:   tickers,
		schedule:  schedule,
		timeout:   time.Minute,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:       log.With(applogger.String("component", "warmer")),
	}
}

// Start registers the job and starts the scheduler.
func (w *Warmer) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("warmer schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	w.log.Info("cache warmer started", applogger.String("schedule", w.schedule), applogger.Strings("tickers", w.tickers))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (w *Warmer) Stop(ctx context.Context) error {
	select {
	case <-w.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce refreshes every ticker of the watchlist and returns how many
// succeeded.
func (w *Warmer) RunOnce(ctx context.Context) int {
	ok := 0
	for _, t := range w.tickers {
		rctx, cancel := context.WithTimeout(ctx, w.timeout)
		s, err := w.refresher.Refresh(rctx, t)
		cancel()
		if err != nil {
			w.log.Warn("warmup failed", applogger.String("ticker", t), applogger.Error(err))
			continue
		}
		if s.Stale {
			w.log.Warn("warmup served stale data", applogger.String("ticker", t))
			continue
		}
		if s.DataQuality == models.DataQualityMock {
			w.log.Warn("warmup served synthetic data", applogger.String("ticker", t))
			continue
		}
		ok++
	}
	w.log.Info("warmup finished", applogger.Int("ok", ok), applogger.Int("total", len(w.tickers)))
	return ok
}
