package api

import (
	"github.com/MatheusMartinho/gambit-sub001/internal/service/metrics"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/ratelimit"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by remote address.
func RateLimit(l *ratelimit.Limiter, log *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			remote := c.RealIP()
			if !l.Allow(remote) {
				metrics.RateLimited.Inc()
				log.Warn("rate limited",
					applogger.String("remote", remote),
					applogger.String("route", c.Path()),
				)
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests, slow down"))
			}
			return next(c)
		}
	}
}
