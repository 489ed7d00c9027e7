package usecase

import (
	"context"
	"fmt"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// CacheAdmin drops cached entries locally and, when a broadcaster is set,
// tells the other instances to do the same.
type CacheAdmin struct {
	policy      *svccache.Policy
	broadcaster domrepo.InvalidationPublisher
	log         *applogger.Logger
}

func NewCacheAdmin(policy *svccache.Policy, broadcaster domrepo.InvalidationPublisher, log *applogger.Logger) *CacheAdmin {
	if log == nil {
		log = applogger.Nop()
	}
	return &CacheAdmin{policy: policy, broadcaster: broadcaster, log: log}
}

// Invalidate removes every entry cached for ticker.
func (c *CacheAdmin) Invalidate(ctx context.Context, ticker string) error {
	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		return err
	}
	if err := c.policy.InvalidateTicker(ctx, t); err != nil {
		return fmt.Errorf("invalidate %s: %w", t, err)
	}
	c.log.Info("cache invalidated", applogger.String("ticker", t))
	c.broadcast(ctx, t)
	return nil
}

// Clear empties the cache.
func (c *CacheAdmin) Clear(ctx context.Context) error {
	if err := c.policy.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	c.log.Info("cache cleared")
	c.broadcast(ctx, "")
	return nil
}

func (c *CacheAdmin) broadcast(ctx context.Context, ticker string) {
	if c.broadcaster == nil {
		return
	}
	if err := c.broadcaster.PublishInvalidation(ctx, ticker); err != nil {
		c.log.Warn("invalidation not broadcast", applogger.String("ticker", ticker), applogger.Error(err))
	}
}
