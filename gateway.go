// Package gatewaygo provides a Go client for MCP servers hosted behind an
// MCP Gateway. This root package re-exports the core components from the
// sub-packages for convenience.
package gatewaygo

import (
	"github.com/mcpgateway/gateway-go/pkg/gateway"
	"github.com/mcpgateway/gateway-go/pkg/logging"
	"github.com/mcpgateway/gateway-go/pkg/observability"
	"github.com/mcpgateway/gateway-go/pkg/transport"
)

// Version represents the current version of the client
const Version = "1.0.0"

// These exports provide direct access to the core components
var (
	// NewClient creates a new gateway client
	NewClient = gateway.New

	// NewLogger creates a new structured logger
	NewLogger = logging.New

	// NewMetricsRecorder creates a new Prometheus metrics recorder
	NewMetricsRecorder = observability.NewMetricsRecorder

	// NewTracingProvider creates a new OpenTelemetry tracing provider
	NewTracingProvider = observability.NewTracingProvider
)

// Client options
var (
	WithTimeout    = gateway.WithTimeout
	WithHTTPClient = gateway.WithHTTPClient
	WithLogger     = gateway.WithLogger
	WithMetrics    = gateway.WithMetrics
	WithTracing    = gateway.WithTracing
	WithMiddleware = gateway.WithMiddleware
)

// Transport middleware constructors
var (
	NewLoggingMiddleware = transport.NewLoggingMiddleware
	NewMetricsMiddleware = transport.NewMetricsMiddleware
	NewTracingMiddleware = transport.NewTracingMiddleware
)
