package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// providerParam is the route parameter naming the inbound webhook provider.
const providerParam = "provider"

// HTTPMetricsMiddleware returns a Gin middleware recording request counts and durations
// labelled with method, route pattern and status code. Webhook routes also carry the
// provider label, except on 404 where the provider name is attacker controlled.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passthrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passthrough
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		opts := metric.WithAttributes(requestAttributes(c)...)
		requestCounter.Add(c.Request.Context(), 1, opts)
		durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), opts)
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}

func requestAttributes(c *gin.Context) []attribute.KeyValue {
	status := c.Writer.Status()
	attrs := []attribute.KeyValue{
		attribute.String("method", c.Request.Method),
		attribute.String("path", sanitizePath(c.FullPath())),
		attribute.String("status_code", strconv.Itoa(status)),
	}
	if provider := c.Param(providerParam); provider != "" && status != http.StatusNotFound {
		attrs = append(attrs, attribute.String("provider", provider))
	}
	return attrs
}

// sanitizePath returns the matched route pattern, or "unknown" for unmatched requests.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
