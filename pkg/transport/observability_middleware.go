package transport

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mcpgateway/gateway-go/pkg/observability"
)

// MetricsMiddleware records request counts and durations per gateway operation
type MetricsMiddleware struct {
	recorder observability.MetricsRecorder
}

// NewMetricsMiddleware creates a middleware that records every request with
// the configured MetricsRecorder
func NewMetricsMiddleware(recorder observability.MetricsRecorder) Middleware {
	return &MetricsMiddleware{recorder: recorder}
}

// Wrap implements the Middleware interface
func (m *MetricsMiddleware) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()
		operation := OperationFromContext(ctx)
		if operation == "" {
			operation = "unknown"
		}

		start := time.Now()
		resp, err := next.Do(req)
		duration := time.Since(start)

		if err != nil {
			m.recorder.RecordRequest(ctx, operation, "error", duration)
			m.recorder.RecordError(ctx, "transport", operation)
			return nil, err
		}

		m.recorder.RecordRequest(ctx, operation, strconv.Itoa(resp.StatusCode), duration)
		return resp, nil
	})
}

// TracingMiddleware starts a client span per request and propagates trace
// context to the gateway via the outgoing headers
type TracingMiddleware struct {
	provider *observability.TracingProvider
}

// NewTracingMiddleware creates a middleware that traces every request
func NewTracingMiddleware(provider *observability.TracingProvider) Middleware {
	return &TracingMiddleware{provider: provider}
}

// Wrap implements the Middleware interface
func (m *TracingMiddleware) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()
		operation := OperationFromContext(ctx)
		if operation == "" {
			operation = "request"
		}

		ctx, span := m.provider.StartOperationSpan(ctx, operation)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		)

		req = req.WithContext(ctx)
		m.provider.Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.Do(req)
		if err != nil {
			m.provider.RecordError(ctx, err)
			return nil, err
		}

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return resp, nil
	})
}
