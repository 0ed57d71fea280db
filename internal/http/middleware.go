package http

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"feedsync/backend/internal/logger"
)

// RequestLoggerMiddleware logs HTTP requests using logger. The request id set
// by middleware.RequestID is attached to the request context so that service
// logs for the same request carry it.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				req = req.WithContext(logger.WithAttrs(req.Context(), slog.String("request_id", id)))
				c.SetRequest(req)
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			status := res.Status
			result := "ok"
			if status >= 400 {
				result = "failed"
			}
			args := []any{
				"module", "http",
				"action", "request",
				"resource", "http",
				"result", result,
				"method", req.Method,
				"path", req.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			}

			ctx := req.Context()
			switch {
			case status >= 500:
				logger.ErrorContext(ctx, "http request", args...)
			case status >= 400:
				logger.WarnContext(ctx, "http request", args...)
			default:
				logger.DebugContext(ctx, "http request", args...)
			}

			return nil
		}
	}
}
