package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcpgateway/gateway-go/pkg/logging"
)

// LoggingMiddleware logs every gateway request and tags it with a request ID
type LoggingMiddleware struct {
	logger logging.Logger
}

// NewLoggingMiddleware creates a middleware that logs request start and
// completion. Each request gets a uuid request ID, sent upstream in the
// X-Request-ID header and propagated through the request context.
func NewLoggingMiddleware(logger logging.Logger) Middleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap implements the Middleware interface
func (m *LoggingMiddleware) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		requestID := req.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			req.Header.Set("X-Request-ID", requestID)
		}

		ctx := logging.ContextWithRequestID(req.Context(), requestID)
		req = req.WithContext(ctx)

		reqLogger := m.logger.WithFields(
			logging.String("request_id", requestID),
			logging.String("method", req.Method),
			logging.String("url", req.URL.String()),
		)
		if operation := OperationFromContext(ctx); operation != "" {
			reqLogger = reqLogger.WithFields(logging.String("operation", operation))
		}

		reqLogger.Debug("Gateway request started")

		start := time.Now()
		resp, err := next.Do(req)
		duration := time.Since(start)

		if err != nil {
			reqLogger.WithFields(
				logging.Duration("duration", duration),
				logging.ErrorField(err),
			).Error("Gateway request failed")
			return nil, err
		}

		reqLogger.WithFields(
			logging.Int("status", resp.StatusCode),
			logging.Duration("duration", duration),
		).Debug("Gateway request completed")

		return resp, nil
	})
}
