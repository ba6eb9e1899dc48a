package http

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/webhooks/internal/httputil"
	"github.com/allisson/webhooks/internal/webhook/http/dto"
)

// CustomLoggerMiddleware logs every request with its request id, route and latency.
// Server errors are logged at error level, client errors at warn.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []any{
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", route),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}

// WebhookRecoveryMiddleware turns a panic on a webhook route into the webhook
// error envelope so the provider still receives a request id to report.
func WebhookRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID := requestid.Get(c)
		logger.Error("panic recovered on webhook route",
			slog.String("request_id", requestID),
			slog.String("provider", c.Param("provider")),
			slog.Any("panic", recovered),
		)
		httputil.WriteWebhookError(c, http.StatusInternalServerError,
			dto.CodeInternalError, "An internal error occurred", requestID, nil)
	})
}
