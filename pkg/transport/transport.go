// Package transport provides the HTTP execution layer for the gateway
// client. Requests flow through a middleware chain so logging, metrics, and
// tracing can observe every call without the client knowing about them.
package transport

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single gateway request when the caller does
// not configure one.
const DefaultRequestTimeout = 30 * time.Second

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc is an adapter to allow the use of ordinary functions as Doers
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do implements the Doer interface
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Doer to add functionality like logging or metrics
type Middleware interface {
	// Wrap wraps the given doer with middleware functionality
	Wrap(next Doer) Doer
}

// MiddlewareFunc is an adapter to allow the use of ordinary functions as middleware
type MiddlewareFunc func(Doer) Doer

// Wrap implements the Middleware interface
func (f MiddlewareFunc) Wrap(next Doer) Doer {
	return f(next)
}

// Chain chains multiple middleware together
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(doer Doer) Doer {
		// Apply middleware in reverse order so the first middleware is the outermost
		for i := len(middleware) - 1; i >= 0; i-- {
			doer = middleware[i].Wrap(doer)
		}
		return doer
	})
}

type operationKey struct{}

// ContextWithOperation tags a request context with the gateway operation
// name (list_tools, invoke_tool, ...) so middleware can label what it records.
func ContextWithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

// OperationFromContext returns the gateway operation name, if any
func OperationFromContext(ctx context.Context) string {
	if operation, ok := ctx.Value(operationKey{}).(string); ok {
		return operation
	}
	return ""
}
