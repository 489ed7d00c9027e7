package api

import (
	"context"
	"net/http"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/metrics"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/ratelimit"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"

	"github.com/labstack/echo/v4"
)

type SnapshotService interface {
	Snapshot(ctx context.Context, ticker string) (*models.Snapshot, error)
	Refresh(ctx context.Context, ticker string) (*models.Snapshot, error)
}

type PeerService interface {
	Peers(ctx context.Context, ticker string) (*models.PeerReport, error)
}

type HistoricalService interface {
	Historical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) (*models.HistoricalSeries, error)
}

type CacheService interface {
	Invalidate(ctx context.Context, ticker string) error
	Clear(ctx context.Context) error
}

// Status is what GET /healthz reports.
type Status struct {
	Mode         string `json:"mode"`
	CacheBackend string `json:"cacheBackend"`
	Kafka        bool   `json:"kafka"`
	Archive      bool   `json:"archive"`
}

// FundamentalsEchoHandler serves the stock snapshot, peers, historical and
// cache admin endpoints.
type FundamentalsEchoHandler struct {
	log        *applogger.Logger
	snapshots  SnapshotService
	peers      PeerService
	historical HistoricalService
	cache      CacheService
	limiter    *ratelimit.Limiter
	status     Status
}

func NewFundamentalsEchoHandler(
	log *applogger.Logger,
	snapshots SnapshotService,
	peers PeerService,
	historical HistoricalService,
	cache CacheService,
	limiter *ratelimit.Limiter,
	status Status,
) *FundamentalsEchoHandler {
	metrics.Register()
	return &FundamentalsEchoHandler{
		log:        log,
		snapshots:  snapshots,
		peers:      peers,
		historical: historical,
		cache:      cache,
		limiter:    limiter,
		status:     status,
	}
}

func (h *FundamentalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/v1")
	if h.limiter != nil {
		g.Use(RateLimit(h.limiter, h.log))
	}
	g.GET("/stocks/:ticker", h.Snapshot)
	g.GET("/stocks/:ticker/peers", h.Peers)
	g.GET("/stocks/:ticker/historical", h.Historical)
	g.DELETE("/cache/:ticker", h.Invalidate)
	g.DELETE("/cache", h.Clear)
}

func (h *FundamentalsEchoHandler) Snapshot(c echo.Context) error {
	start := time.Now()
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("snapshot", start, "invalid_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	load := h.snapshots.Snapshot
	if req.Refresh {
		load = h.snapshots.Refresh
	}
	snap, err := load(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "snapshot", start, err, applogger.String("ticker", req.Ticker))
	}

	metrics.Observe("snapshot", start, "")
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, snap)
}

func (h *FundamentalsEchoHandler) Peers(c echo.Context) error {
	start := time.Now()
	req := &models.PeersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("peers", start, "invalid_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.peers.Peers(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "peers", start, err, applogger.String("ticker", req.Ticker))
	}
	metrics.Observe("peers", start, "")
	return xhttp.SuccessResponse(c, report)
}

func (h *FundamentalsEchoHandler) Historical(c echo.Context) error {
	start := time.Now()
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("historical", start, "invalid_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.historical.Historical(c.Request().Context(), req.Ticker, models.Range(req.Range), models.Interval(req.Interval))
	if err != nil {
		return h.fail(c, "historical", start, err,
			applogger.String("ticker", req.Ticker),
			applogger.String("range", req.Range),
			applogger.String("interval", req.Interval),
		)
	}
	metrics.Observe("historical", start, "")
	return xhttp.SuccessResponse(c, series)
}

func (h *FundamentalsEchoHandler) Invalidate(c echo.Context) error {
	start := time.Now()
	req := &models.InvalidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Observe("cache_invalidate", start, "invalid_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.cache.Invalidate(c.Request().Context(), req.Ticker); err != nil {
		return h.fail(c, "cache_invalidate", start, err, applogger.String("ticker", req.Ticker))
	}
	metrics.Observe("cache_invalidate", start, "")

	ticker, _ := models.NormalizeTicker(req.Ticker)
	return xhttp.SuccessResponse(c, models.CacheClearResponse{Scope: "ticker", Ticker: ticker})
}

func (h *FundamentalsEchoHandler) Clear(c echo.Context) error {
	start := time.Now()
	if err := h.cache.Clear(c.Request().Context()); err != nil {
		return h.fail(c, "cache_clear", start, err)
	}
	metrics.Observe("cache_clear", start, "")
	return xhttp.SuccessResponse(c, models.CacheClearResponse{Scope: "all"})
}

func (h *FundamentalsEchoHandler) Health(c echo.Context) error {
	return xhttp.DataResponse(c, http.StatusOK, h.status)
}

func (h *FundamentalsEchoHandler) fail(c echo.Context, endpoint string, start time.Time, err error, fields ...applogger.Field) error {
	kind := models.ErrorKind(err)
	metrics.Observe(endpoint, start, kind)

	appErr := ToAppError(err)
	fields = append(fields, applogger.String("endpoint", endpoint), applogger.String("kind", kind), applogger.Error(err))
	if appErr.Status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Warn("request rejected", fields...)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
