// Package observability provides metrics and tracing for the gateway client.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// MetricsConfig configures the metrics recorder
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// ListenAddr is the address for the /metrics HTTP server. Empty
	// disables the server; metrics are still recorded and can be gathered
	// from a caller-supplied registry.
	ListenAddr  string
	MetricsPath string // default: /metrics

	// Namespace is the Prometheus namespace (default: gateway)
	Namespace        string
	Subsystem        string
	HistogramBuckets []float64 // latency buckets in milliseconds

	// Registry to register collectors with (default: prometheus.DefaultRegisterer)
	Registry prometheus.Registerer

	// Labels added to all metrics
	ConstLabels prometheus.Labels
}

// MetricsRecorder records gateway client metrics
type MetricsRecorder interface {
	// RecordRequest records one gateway HTTP call by operation
	// (list_tools, list_resources, list_prompts, invoke_tool) and status
	RecordRequest(ctx context.Context, operation, status string, duration time.Duration)

	// RecordToolCall records one tool invocation by tool name and status
	RecordToolCall(ctx context.Context, tool, status string, duration time.Duration)

	// RecordError records an error by category and operation
	RecordError(ctx context.Context, category, operation string)

	// Start starts the optional metrics HTTP server
	Start(ctx context.Context) error

	// Shutdown gracefully stops the metrics HTTP server
	Shutdown(ctx context.Context) error
}

// PrometheusRecorder implements MetricsRecorder using Prometheus
type PrometheusRecorder struct {
	config MetricsConfig

	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	toolCallTotal    *prometheus.CounterVec
	errorTotal       *prometheus.CounterVec

	mu     sync.Mutex
	server *http.Server
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewMetricsRecorder creates a new Prometheus metrics recorder
func NewMetricsRecorder(config MetricsConfig) (*PrometheusRecorder, error) {
	if config.Namespace == "" {
		config.Namespace = "gateway"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	if config.ServiceName != "" {
		config.ConstLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		config.ConstLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	r := &PrometheusRecorder{config: config}
	r.initializeMetrics()

	if err := r.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return r, nil
}

// initializeMetrics creates all metric collectors
func (r *PrometheusRecorder) initializeMetrics() {
	r.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   r.config.Namespace,
			Subsystem:   r.config.Subsystem,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of gateway requests in milliseconds",
			Buckets:     r.config.HistogramBuckets,
			ConstLabels: r.config.ConstLabels,
		},
		[]string{"operation", "status"},
	)

	r.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   r.config.Namespace,
			Subsystem:   r.config.Subsystem,
			Name:        "request_total",
			Help:        "Total number of gateway requests",
			ConstLabels: r.config.ConstLabels,
		},
		[]string{"operation", "status"},
	)

	r.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   r.config.Namespace,
			Subsystem:   r.config.Subsystem,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool invocations in milliseconds",
			Buckets:     r.config.HistogramBuckets,
			ConstLabels: r.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	r.toolCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   r.config.Namespace,
			Subsystem:   r.config.Subsystem,
			Name:        "tool_call_total",
			Help:        "Total number of tool invocations",
			ConstLabels: r.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	r.errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   r.config.Namespace,
			Subsystem:   r.config.Subsystem,
			Name:        "error_total",
			Help:        "Total number of errors",
			ConstLabels: r.config.ConstLabels,
		},
		[]string{"category", "operation"},
	)
}

// registerMetrics registers all metrics with the configured registry
func (r *PrometheusRecorder) registerMetrics() error {
	collectors := []prometheus.Collector{
		r.requestDuration,
		r.requestTotal,
		r.toolCallDuration,
		r.toolCallTotal,
		r.errorTotal,
	}

	for _, collector := range collectors {
		if err := r.config.Registry.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	return nil
}

// RecordRequest records one gateway HTTP call
func (r *PrometheusRecorder) RecordRequest(ctx context.Context, operation, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	r.requestDuration.WithLabelValues(operation, status).Observe(ms)
	r.requestTotal.WithLabelValues(operation, status).Inc()
}

// RecordToolCall records one tool invocation
func (r *PrometheusRecorder) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	r.toolCallDuration.WithLabelValues(tool, status).Observe(ms)
	r.toolCallTotal.WithLabelValues(tool, status).Inc()
}

// RecordError records an error occurrence
func (r *PrometheusRecorder) RecordError(ctx context.Context, category, operation string) {
	r.errorTotal.WithLabelValues(category, operation).Inc()
}

// Start starts the metrics HTTP server if ListenAddr is configured
func (r *PrometheusRecorder) Start(ctx context.Context) error {
	if r.config.ListenAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	if gatherer, ok := r.config.Registry.(prometheus.Gatherer); ok {
		mux.Handle(r.config.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	} else {
		mux.Handle(r.config.MetricsPath, promhttp.Handler())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.server = &http.Server{
		Addr:    r.config.ListenAddr,
		Handler: mux,
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	g, gctx := errgroup.WithContext(ctx)
	r.group = g

	g.Go(func() error {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Stops the server when the Start context is cancelled or when Shutdown
	// cancels. A serve failure also lands here via the group context; the
	// error itself surfaces from Shutdown's Wait.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return r.server.Shutdown(shutdownCtx)
	})

	return nil
}

// Shutdown gracefully shuts down the metrics server
func (r *PrometheusRecorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	server := r.server
	group := r.group
	cancel := r.cancel
	r.mu.Unlock()

	if server == nil {
		return nil
	}
	if cancel != nil {
		cancel()
	}

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	if group != nil {
		return group.Wait()
	}
	return nil
}

// NopRecorder is a MetricsRecorder that records nothing
type NopRecorder struct{}

// NewNopRecorder creates a metrics recorder that discards all observations
func NewNopRecorder() *NopRecorder {
	return &NopRecorder{}
}

func (NopRecorder) RecordRequest(ctx context.Context, operation, status string, duration time.Duration) {
}

func (NopRecorder) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
}

func (NopRecorder) RecordError(ctx context.Context, category, operation string) {}

func (NopRecorder) Start(ctx context.Context) error { return nil }

func (NopRecorder) Shutdown(ctx context.Context) error { return nil }
