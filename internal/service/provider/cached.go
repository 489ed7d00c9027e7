package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	"github.com/MatheusMartinho/gambit-sub001/pkg/cache"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// TTLs bounds how long raw provider responses are reused.
type TTLs struct {
	Quote        time.Duration
	Fundamentals time.Duration
	Historical   time.Duration
}

// CachedClient decorates a ProviderClient with a short-lived raw cache so
// repeated snapshot misses do not hammer upstreams. Failures are never cached.
type CachedClient struct {
	next    repository.ProviderClient
	records cache.Store[*models.ProviderRecord]
	bars    cache.Store[[]models.HistoricalBar]
	ttl     TTLs
	log     *applogger.Logger
}

// NewCachedClient wraps next.
func NewCachedClient(next repository.ProviderClient, records cache.Store[*models.ProviderRecord], bars cache.Store[[]models.HistoricalBar], ttl TTLs, log *applogger.Logger) *CachedClient {
	if log == nil {
		log = applogger.Nop()
	}
	return &CachedClient{next: next, records: records, bars: bars, ttl: ttl, log: log}
}

func (c *CachedClient) Name() models.ProviderID { return c.next.Name() }

func (c *CachedClient) FetchQuote(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	return c.record(ctx, "quote", ticker, c.ttl.Quote, c.next.FetchQuote)
}

func (c *CachedClient) FetchFundamentals(ctx context.Context, ticker string) (*models.ProviderRecord, error) {
	return c.record(ctx, "fundamentals", ticker, c.ttl.Fundamentals, c.next.FetchFundamentals)
}

func (c *CachedClient) FetchHistorical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) ([]models.HistoricalBar, error) {
	key := cache.GenerateKey(fmt.Sprintf("%s-historical-%s-%s", c.next.Name(), rng, interval), ticker)
	if bars, ok, err := c.bars.Get(ctx, key); err == nil && ok {
		return bars, nil
	}
	bars, err := c.next.FetchHistorical(ctx, ticker, rng, interval)
	if err != nil {
		return nil, err
	}
	if err := c.bars.Set(ctx, key, bars, c.ttl.Historical); err != nil {
		c.log.Warn("raw cache store failed", applogger.String("key", key), applogger.Error(err))
	}
	return bars, nil
}

func (c *CachedClient) record(ctx context.Context, op, ticker string, ttl time.Duration, fetch func(context.Context, string) (*models.ProviderRecord, error)) (*models.ProviderRecord, error) {
	key := cache.GenerateKey(fmt.Sprintf("%s-%s", c.next.Name(), op), ticker)
	if rec, ok, err := c.records.Get(ctx, key); err == nil && ok {
		return rec, nil
	}
	rec, err := fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := c.records.Set(ctx, key, rec, ttl); err != nil {
		c.log.Warn("raw cache store failed", applogger.String("key", key), applogger.Error(err))
	}
	return rec, nil
}
