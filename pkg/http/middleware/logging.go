package middleware

import (
	"time"

	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestID reuses an inbound X-Request-ID or assigns a new uuid, and echoes
// it on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogging logs one line per request through l.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			fields := []applogger.Field{
				applogger.String("method", c.Request().Method),
				applogger.String("route", c.Path()),
				applogger.Int("status", res.Status),
				applogger.Duration("latency_ms", time.Since(start)),
				applogger.String("remote", c.RealIP()),
			}
			if id, ok := c.Get("request_id").(string); ok {
				fields = append(fields, applogger.String("request_id", id))
			}
			switch {
			case res.Status >= 500:
				l.Error("http request", fields...)
			case res.Status >= 400:
				l.Warn("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
			return nil
		}
	}
}
