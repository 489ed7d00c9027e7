package provider

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"

	"golang.org/x/time/rate"
)

// Base is the HTTP foundation shared by provider adapters: per-request
// timeout, throttling, bounded exponential retry and error classification.
// Every error it returns is a *models.ProviderError.
type Base struct {
	id      models.ProviderID
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	retry   config.RetryConfig
	log     *applogger.Logger
	metrics repository.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewBase builds a Base from provider config. Extra client options are
// applied after the config-derived ones.
func NewBase(id models.ProviderID, cfg config.ProviderConfig, log *applogger.Logger, metrics repository.Metrics, opts ...xhttp.ClientOption) *Base {
	if log == nil {
		log = applogger.Nop()
	}
	if metrics == nil {
		metrics = repository.NopMetrics{}
	}
	clientOpts := append([]xhttp.ClientOption{
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithUserAgent(cfg.UserAgent),
	}, opts...)

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	retry := cfg.Retry
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}

	return &Base{
		id:      id,
		baseURL: cfg.BaseURL,
		client:  xhttp.NewClient(clientOpts...),
		limiter: rate.NewLimiter(limit, burst),
		retry:   retry,
		log:     log.With(applogger.String("provider", string(id))),
		metrics: metrics,
		sleep:   sleepCtx,
	}
}

func (b *Base) ID() models.ProviderID { return b.id }

// Request describes one GET against the provider's base URL.
type Request struct {
	Op      string
	Ticker  string
	Path    string
	Query   map[string][]string
	Headers map[string]string
}

// GetJSON fetches req and decodes the JSON body into dest.
func (b *Base) GetJSON(ctx context.Context, req Request, dest any) error {
	return b.do(ctx, req, dest)
}

// GetRaw fetches req and returns the raw body.
func (b *Base) GetRaw(ctx context.Context, req Request) ([]byte, error) {
	var body []byte
	if err := b.do(ctx, req, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (b *Base) do(ctx context.Context, req Request, dest any) error {
	start := time.Now()
	var err error
	for attempt := 0; attempt < b.retry.Attempts; attempt++ {
		if attempt > 0 {
			if serr := b.sleep(ctx, b.Backoff(attempt-1)); serr != nil {
				err = b.classify(req.Op, serr)
				break
			}
		}
		if werr := b.limiter.Wait(ctx); werr != nil {
			err = b.classify(req.Op, werr)
			break
		}

		err = b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         b.baseURL + req.Path,
			Headers:     req.Headers,
			QueryParams: req.Query,
		}, dest)
		if err == nil {
			b.metrics.RecordProviderFetch(string(b.id), req.Op, "ok", time.Since(start).Seconds())
			return nil
		}
		err = b.classify(req.Op, err)
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		b.log.Debug("provider request retry",
			applogger.String("op", req.Op),
			applogger.String("ticker", req.Ticker),
			applogger.Int("attempt", attempt+1),
			applogger.Error(err),
		)
	}

	b.metrics.RecordProviderFetch(string(b.id), req.Op, models.ErrorKind(err), time.Since(start).Seconds())
	b.log.Warn("provider request failed",
		applogger.String("op", req.Op),
		applogger.String("ticker", req.Ticker),
		applogger.String("kind", models.ErrorKind(err)),
		applogger.Error(err),
	)
	return err
}

// Backoff returns the delay before retry n (0-based): BaseDelay*2^n capped
// at MaxDelay.
func (b *Base) Backoff(n int) time.Duration {
	d := time.Duration(float64(b.retry.BaseDelay) * math.Pow(2, float64(n)))
	if b.retry.MaxDelay > 0 && d > b.retry.MaxDelay {
		return b.retry.MaxDelay
	}
	return d
}

// Fail builds a ProviderError for failures detected after a successful
// transport round trip (empty result set, unexpected shape).
func (b *Base) Fail(op string, kind error, err error) error {
	return models.NewProviderError(b.id, op, kind, 0, err)
}

func (b *Base) classify(op string, err error) error {
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		kind := models.ErrProviderUnavailable
		if se.StatusCode == http.StatusNotFound {
			kind = models.ErrTickerNotFound
		}
		return models.NewProviderError(b.id, op, kind, se.StatusCode, err)
	}
	if xhttp.IsDecodeError(err) {
		return models.NewProviderError(b.id, op, models.ErrProviderMalformed, 0, err)
	}
	return models.NewProviderError(b.id, op, models.ErrProviderUnavailable, 0, err)
}

// retryable: network failures, 429 and 5xx. Not-found, malformed payloads
// and other 4xx are final.
func retryable(err error) bool {
	var pe *models.ProviderError
	if !errors.As(err, &pe) || !errors.Is(pe.Kind, models.ErrProviderUnavailable) {
		return false
	}
	if errors.Is(pe.Err, context.Canceled) {
		return false
	}
	return pe.Status == 0 || pe.Status == http.StatusTooManyRequests || pe.Status >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
