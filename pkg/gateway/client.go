package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gwerrors "github.com/mcpgateway/gateway-go/pkg/errors"
	"github.com/mcpgateway/gateway-go/pkg/logging"
	"github.com/mcpgateway/gateway-go/pkg/observability"
	"github.com/mcpgateway/gateway-go/pkg/transport"
)

// Operation names used for logging, metrics, and tracing labels
const (
	OperationListTools     = "list_tools"
	OperationListResources = "list_resources"
	OperationListPrompts   = "list_prompts"
	OperationInvokeTool    = "invoke_tool"
)

// Config holds the client configuration assembled from options
type Config struct {
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         logging.Logger
	metrics        observability.MetricsRecorder
	tracing        *observability.TracingProvider
	middleware     []transport.Middleware
}

// Option configures a client during creation
type Option func(*Config)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.requestTimeout = timeout
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.httpClient = client
	}
}

// WithLogger sets the structured logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *Config) {
		c.metrics = recorder
	}
}

// WithTracing sets the tracing provider
func WithTracing(provider *observability.TracingProvider) Option {
	return func(c *Config) {
		c.tracing = provider
	}
}

// WithMiddleware appends transport middleware, applied outermost-first
// before the built-in logging and metrics middleware
func WithMiddleware(middleware ...transport.Middleware) Option {
	return func(c *Config) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// Client talks to one named MCP server behind an MCP Gateway. It caches the
// server's tool, resource, and prompt catalogs for the life of the process;
// the caches are populated by Initialize and never refreshed implicitly.
//
// The client is intended for a single logical thread of control. Catalog
// reads and fetches are not synchronized against each other.
type Client struct {
	baseURL    string
	serverName string
	serverURL  string

	doer    transport.Doer
	timeout time.Duration
	logger  logging.Logger
	metrics observability.MetricsRecorder

	tools     []Tool
	resources []Resource
	prompts   []Prompt
}

// New creates a gateway client for the named server. The derived server URL
// is baseURL with trailing slashes removed, joined with /mcp-server/ and the
// server name.
func New(baseURL, serverName string, options ...Option) *Client {
	cfg := &Config{
		requestTimeout: transport.DefaultRequestTimeout,
		logger:         logging.NewNop(),
		metrics:        observability.NewNopRecorder(),
	}
	for _, option := range options {
		option(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	middleware := append([]transport.Middleware{}, cfg.middleware...)
	if cfg.tracing != nil {
		middleware = append(middleware, transport.NewTracingMiddleware(cfg.tracing))
	}
	middleware = append(middleware,
		transport.NewLoggingMiddleware(cfg.logger),
		transport.NewMetricsMiddleware(cfg.metrics),
	)

	trimmed := strings.TrimRight(baseURL, "/")

	return &Client{
		baseURL:    trimmed,
		serverName: serverName,
		serverURL:  trimmed + "/mcp-server/" + serverName,
		doer:       transport.Chain(middleware...).Wrap(httpClient),
		timeout:    cfg.requestTimeout,
		logger:     cfg.logger.WithFields(logging.String("server", serverName)),
		metrics:    cfg.metrics,
	}
}

// ServerURL returns the derived URL of the MCP server behind the gateway
func (c *Client) ServerURL() string {
	return c.serverURL
}

// ServerName returns the name of the MCP server this client targets
func (c *Client) ServerName() string {
	return c.serverName
}

// Initialize populates the catalogs by fetching tools, resources, and
// prompts, in that order. A failed fetch leaves its catalog at its previous
// value and does not stop the remaining fetches. Errors from all three
// fetches are returned joined; the client stays usable either way.
func (c *Client) Initialize(ctx context.Context) error {
	var errs []error

	if err := c.fetchTools(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to fetch tools")
		errs = append(errs, err)
	}
	if err := c.fetchResources(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to fetch resources")
		errs = append(errs, err)
	}
	if err := c.fetchPrompts(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to fetch prompts")
		errs = append(errs, err)
	}

	return stderrors.Join(errs...)
}

// fetchCollection GETs one catalog endpoint and decodes the JSON array
func (c *Client) fetchCollection(ctx context.Context, operation, endpoint string) ([]map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = transport.ContextWithOperation(ctx, operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, gwerrors.WrapError(err, gwerrors.CodeInternalError,
			"failed to build request", gwerrors.CategoryInternal, gwerrors.SeverityError)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, gwerrors.TransportError(operation, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gwerrors.TransportError(operation, endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, gwerrors.HTTPStatusError(operation, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, gwerrors.DecodeError(operation, err)
	}
	if entries == nil {
		entries = []map[string]interface{}{}
	}

	return entries, nil
}

func (c *Client) fetchTools(ctx context.Context) error {
	entries, err := c.fetchCollection(ctx, OperationListTools, c.serverURL+"/tools")
	if err != nil {
		return err
	}

	tools := make([]Tool, len(entries))
	for i, entry := range entries {
		tools[i] = Tool(entry)
	}
	c.tools = tools

	c.logger.Info("Fetched tools from MCP server", logging.Int("count", len(tools)))
	return nil
}

func (c *Client) fetchResources(ctx context.Context) error {
	entries, err := c.fetchCollection(ctx, OperationListResources, c.serverURL+"/resources")
	if err != nil {
		return err
	}

	resources := make([]Resource, len(entries))
	for i, entry := range entries {
		resources[i] = Resource(entry)
	}
	c.resources = resources

	c.logger.Info("Fetched resources from MCP server", logging.Int("count", len(resources)))
	return nil
}

func (c *Client) fetchPrompts(ctx context.Context) error {
	entries, err := c.fetchCollection(ctx, OperationListPrompts, c.serverURL+"/prompts")
	if err != nil {
		return err
	}

	prompts := make([]Prompt, len(entries))
	for i, entry := range entries {
		prompts[i] = Prompt(entry)
	}
	c.prompts = prompts

	c.logger.Info("Fetched prompts from MCP server", logging.Int("count", len(prompts)))
	return nil
}

// Tools returns the cached tool catalog without re-fetching
func (c *Client) Tools() []Tool {
	return c.tools
}

// Resources returns the cached resource catalog without re-fetching
func (c *Client) Resources() []Resource {
	return c.resources
}

// Prompts returns the cached prompt catalog without re-fetching
func (c *Client) Prompts() []Prompt {
	return c.prompts
}

// ToolNames returns the name of every cached tool, in catalog order. An
// entry without a name field is an error.
func (c *Client) ToolNames() ([]string, error) {
	names := make([]string, len(c.tools))
	for i, tool := range c.tools {
		if !tool.HasName() {
			return nil, gwerrors.MissingField("tool", i, "name")
		}
		names[i] = tool.Name()
	}
	return names, nil
}

// ToolInfo returns the first cached tool whose name matches. Names are
// expected to be unique but this is not enforced; first match wins.
func (c *Client) ToolInfo(name string) (Tool, error) {
	for _, tool := range c.tools {
		if tool.Name() == name {
			return tool, nil
		}
	}
	return nil, gwerrors.ToolNotFound(name)
}

// InvokeTool invokes a tool on the MCP server with the given parameters and
// returns the decoded JSON result. The tool must exist in the cached
// catalog; an unknown name fails without any network call. A nil params map
// is sent as an empty JSON object.
func (c *Client) InvokeTool(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	if _, err := c.ToolInfo(name); err != nil {
		return nil, err
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, gwerrors.WrapError(err, gwerrors.CodeInternalError,
			"failed to encode tool parameters", gwerrors.CategoryInternal, gwerrors.SeverityError)
	}

	endpoint := c.serverURL + "/tools/" + url.PathEscape(name)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = transport.ContextWithOperation(ctx, OperationInvokeTool)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, gwerrors.WrapError(err, gwerrors.CodeInternalError,
			"failed to build request", gwerrors.CategoryInternal, gwerrors.SeverityError)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.metrics.RecordToolCall(ctx, name, "error", time.Since(start))
		return nil, gwerrors.TransportError(OperationInvokeTool, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordToolCall(ctx, name, "error", time.Since(start))
		return nil, gwerrors.TransportError(OperationInvokeTool, endpoint, err)
	}
	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordToolCall(ctx, name, "error", duration)
		return nil, gwerrors.HTTPStatusError(OperationInvokeTool, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		c.metrics.RecordToolCall(ctx, name, "error", duration)
		return nil, gwerrors.DecodeError(OperationInvokeTool, err)
	}

	c.metrics.RecordToolCall(ctx, name, "ok", duration)
	c.logger.Info("Invoked tool",
		logging.String("tool", name),
		logging.Duration("duration", duration),
	)

	return result, nil
}
