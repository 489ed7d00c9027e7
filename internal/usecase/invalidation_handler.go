package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	pkgkafka "github.com/MatheusMartinho/gambit-sub001/pkg/kafka"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// InvalidationHandler applies invalidations broadcast by other instances to
// the local cache. It never re-broadcasts.
type InvalidationHandler struct {
	topic   string
	origin  string
	policy  *svccache.Policy
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewInvalidationHandler(topic, origin string, policy *svccache.Policy, metrics domrepo.Metrics, log *applogger.Logger) *InvalidationHandler {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &InvalidationHandler{topic: topic, origin: origin, policy: policy, metrics: metrics, log: log}
}

func (h *InvalidationHandler) Topic() string { return h.topic }

func (h *InvalidationHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.InvalidationEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		// A malformed message will never parse; retrying it is pointless.
		h.log.Warn("invalidation message ignored", applogger.Error(err))
		return nil
	}
	if ev.Origin == h.origin {
		return nil
	}

	if ev.Ticker == "" {
		if err := h.policy.Clear(ctx); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		h.log.Info("cache cleared by peer", applogger.String("origin", ev.Origin))
		return nil
	}

	t, err := models.NormalizeTicker(ev.Ticker)
	if err != nil {
		h.log.Warn("invalidation for invalid ticker ignored", applogger.String("ticker", ev.Ticker))
		return nil
	}
	if err := h.policy.InvalidateTicker(ctx, t); err != nil {
		return fmt.Errorf("invalidate %s: %w", t, err)
	}
	h.log.Info("cache invalidated by peer", applogger.String("ticker", t), applogger.String("origin", ev.Origin))
	return nil
}

var _ pkgkafka.MessageHandler = (*InvalidationHandler)(nil)
