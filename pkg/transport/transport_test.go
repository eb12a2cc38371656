package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgateway/gateway-go/pkg/logging"
)

func newResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}
}

func newRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://gateway.local/mcp-server/s/tools", nil)
	require.NoError(t, err)
	return req
}

func TestChainOrder(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return MiddlewareFunc(func(next Doer) Doer {
			return DoerFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.Do(req)
			})
		})
	}

	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		order = append(order, "doer")
		return newResponse(http.StatusOK), nil
	})

	doer := Chain(tag("first"), tag("second"), tag("third")).Wrap(inner)
	_, err := doer.Do(newRequest(t, context.Background()))
	require.NoError(t, err)

	// First middleware in the chain is the outermost
	assert.Equal(t, []string{"first", "second", "third", "doer"}, order)
}

func TestOperationContext(t *testing.T) {
	ctx := ContextWithOperation(context.Background(), "list_tools")
	assert.Equal(t, "list_tools", OperationFromContext(ctx))
	assert.Equal(t, "", OperationFromContext(context.Background()))
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.NewTextFormatter())
	logger.SetLevel(logging.DebugLevel)

	var seenHeader string
	var seenContextID string
	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		seenHeader = req.Header.Get("X-Request-ID")
		seenContextID = logging.RequestIDFromContext(req.Context())
		return newResponse(http.StatusOK), nil
	})

	doer := NewLoggingMiddleware(logger).Wrap(inner)
	_, err := doer.Do(newRequest(t, context.Background()))
	require.NoError(t, err)

	require.NotEmpty(t, seenHeader, "request ID header should be set")
	assert.Equal(t, seenHeader, seenContextID, "context and header should agree")
	assert.Contains(t, buf.String(), seenHeader)
	assert.Contains(t, buf.String(), "Gateway request completed")
}

func TestLoggingMiddlewareKeepsExistingRequestID(t *testing.T) {
	logger := logging.NewNop()

	var seen string
	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("X-Request-ID")
		return newResponse(http.StatusOK), nil
	})

	req := newRequest(t, context.Background())
	req.Header.Set("X-Request-ID", "caller-chosen")

	_, err := NewLoggingMiddleware(logger).Wrap(inner).Do(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-chosen", seen)
}

// fakeRecorder captures metric observations for assertions
type fakeRecorder struct {
	mu        sync.Mutex
	requests  []string
	toolCalls []string
	errors    []string
}

func (f *fakeRecorder) RecordRequest(ctx context.Context, operation, status string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, operation+":"+status)
}

func (f *fakeRecorder) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toolCalls = append(f.toolCalls, tool+":"+status)
}

func (f *fakeRecorder) RecordError(ctx context.Context, category, operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, category+":"+operation)
}

func (f *fakeRecorder) Start(ctx context.Context) error    { return nil }
func (f *fakeRecorder) Shutdown(ctx context.Context) error { return nil }

func TestMetricsMiddlewareRecordsStatus(t *testing.T) {
	recorder := &fakeRecorder{}

	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusInternalServerError), nil
	})

	ctx := ContextWithOperation(context.Background(), "list_tools")
	_, err := NewMetricsMiddleware(recorder).Wrap(inner).Do(newRequest(t, ctx))
	require.NoError(t, err)

	assert.Equal(t, []string{"list_tools:500"}, recorder.requests)
	assert.Empty(t, recorder.errors)
}

func TestMetricsMiddlewareRecordsTransportError(t *testing.T) {
	recorder := &fakeRecorder{}

	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	ctx := ContextWithOperation(context.Background(), "invoke_tool")
	_, err := NewMetricsMiddleware(recorder).Wrap(inner).Do(newRequest(t, ctx))
	require.Error(t, err)

	assert.Equal(t, []string{"invoke_tool:error"}, recorder.requests)
	assert.Equal(t, []string{"transport:invoke_tool"}, recorder.errors)
}

func TestMetricsMiddlewareUnknownOperation(t *testing.T) {
	recorder := &fakeRecorder{}

	inner := DoerFunc(func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK), nil
	})

	_, err := NewMetricsMiddleware(recorder).Wrap(inner).Do(newRequest(t, context.Background()))
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown:200"}, recorder.requests)
}
