package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// redactedQueryParams never reach the logs
var redactedQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"email": true, "phone": true,
}

// ObservabilityMiddleware records request metrics and writes one access log line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if span := trace.SpanContextFromContext(c.Request.Context()); span.HasTraceID() {
			fields = append(fields, zap.String("trace_id", span.TraceID().String()))
		}
		if actor := GetActor(c); actor != nil {
			fields = append(fields, zap.Int64("user_id", actor.UserID))
		}

		if status >= 400 {
			fields = append(fields, errorFields(c)...)
		}

		logger.LogHTTPRequest(method, c.Request.URL.Path, status, duration, fields...)
	}
}

func errorFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}

	if query := c.Request.URL.Query(); len(query) > 0 {
		sanitized := make(map[string]string, len(query))
		for k, v := range query {
			if !redactedQueryParams[strings.ToLower(k)] && len(v) > 0 {
				sanitized[k] = v[0]
			}
		}
		if len(sanitized) > 0 {
			fields = append(fields, zap.Any("query_params", sanitized))
		}
	}

	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}

	return fields
}
