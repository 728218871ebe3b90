package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/cabinetrenov/renov-api/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// New returns an *http.Client for calls to the named peer (e.g. "resend").
// Every request is timed, traced and propagates the trace context.
func New(peer string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &instrumentedTransport{peer: peer, next: http.DefaultTransport},
	}
}

type instrumentedTransport struct {
	peer string
	next http.RoundTripper
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := tracing.StartSpan(req.Context(), t.peer+" "+req.Method,
		attribute.String("peer.service", t.peer),
		attribute.String("http.request.method", req.Method),
		attribute.String("server.address", req.URL.Host),
	)
	defer span.End()

	// RoundTrippers must not modify the caller's request
	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := metrics.MeasureDuration(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode >= 500 {
			span.SetStatus(codes.Error, resp.Status)
		}
	} else {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("Outbound request failed",
			zap.String("peer", t.peer),
			zap.String("method", req.Method),
			zap.Error(err))
	}
	metrics.HTTPClientRequestDuration.WithLabelValues(t.peer, req.Method, status).Observe(duration)

	return resp, err
}
