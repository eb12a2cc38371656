package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, config MetricsConfig) (*PrometheusRecorder, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	config.Registry = registry
	recorder, err := NewMetricsRecorder(config)
	require.NoError(t, err)
	return recorder, registry
}

func gatherNames(t *testing.T, registry *prometheus.Registry) map[string]bool {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	return names
}

func TestRecorderRegistersMetrics(t *testing.T) {
	recorder, registry := newTestRecorder(t, MetricsConfig{ServiceName: "test"})

	recorder.RecordRequest(context.Background(), "list_tools", "200", 12*time.Millisecond)
	recorder.RecordToolCall(context.Background(), "echo", "ok", 30*time.Millisecond)
	recorder.RecordError(context.Background(), "transport", "invoke_tool")

	names := gatherNames(t, registry)
	for _, want := range []string{
		"gateway_request_duration_milliseconds",
		"gateway_request_total",
		"gateway_tool_call_duration_milliseconds",
		"gateway_tool_call_total",
		"gateway_error_total",
	} {
		assert.True(t, names[want], "metric %s should be registered", want)
	}
}

func TestRecorderCounts(t *testing.T) {
	recorder, registry := newTestRecorder(t, MetricsConfig{})

	recorder.RecordRequest(context.Background(), "list_tools", "200", time.Millisecond)
	recorder.RecordRequest(context.Background(), "list_tools", "200", time.Millisecond)
	recorder.RecordRequest(context.Background(), "list_tools", "500", time.Millisecond)

	families, err := registry.Gather()
	require.NoError(t, err)

	var ok, failed float64
	for _, family := range families {
		if family.GetName() != "gateway_request_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			status := ""
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" {
					status = label.GetValue()
				}
			}
			switch status {
			case "200":
				ok = metric.GetCounter().GetValue()
			case "500":
				failed = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, float64(2), ok)
	assert.Equal(t, float64(1), failed)
}

func TestRecorderCustomNamespace(t *testing.T) {
	recorder, registry := newTestRecorder(t, MetricsConfig{Namespace: "mcpclient"})

	recorder.RecordRequest(context.Background(), "list_tools", "200", time.Millisecond)

	names := gatherNames(t, registry)
	assert.True(t, names["mcpclient_request_total"])
}

func TestRecorderDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	_, err := NewMetricsRecorder(MetricsConfig{Registry: registry})
	require.NoError(t, err)

	// Registering the same collectors twice must tolerate AlreadyRegisteredError
	_, err = NewMetricsRecorder(MetricsConfig{Registry: registry})
	require.NoError(t, err)
}

func TestMetricsServerLifecycle(t *testing.T) {
	recorder, _ := newTestRecorder(t, MetricsConfig{ListenAddr: "127.0.0.1:0"})

	// Port 0 picks a free port, so this only exercises the Start/Shutdown
	// cycle. Scraping is covered by TestMetricsEndpointServes.
	ctx := context.Background()
	require.NoError(t, recorder.Start(ctx))

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, recorder.Shutdown(shutdownCtx))
}

func TestMetricsServerDisabled(t *testing.T) {
	recorder, _ := newTestRecorder(t, MetricsConfig{})

	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Shutdown(context.Background()))
}

func TestMetricsEndpointServes(t *testing.T) {
	recorder, _ := newTestRecorder(t, MetricsConfig{ListenAddr: "127.0.0.1:19901"})
	recorder.RecordRequest(context.Background(), "list_tools", "200", time.Millisecond)

	ctx := context.Background()
	require.NoError(t, recorder.Start(ctx))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_ = recorder.Shutdown(shutdownCtx)
	}()

	// Give the listener a moment to come up
	var resp *http.Response
	var err error
	for i := 0; i < 20; i++ {
		resp, err = http.Get("http://127.0.0.1:19901/metrics")
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "gateway_request_total"))
}

func TestMetricsServerStopsOnContextCancel(t *testing.T) {
	recorder, _ := newTestRecorder(t, MetricsConfig{ListenAddr: "127.0.0.1:19902"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, recorder.Start(ctx))

	var err error
	for i := 0; i < 20; i++ {
		var resp *http.Response
		resp, err = http.Get("http://127.0.0.1:19902/metrics")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, err)

	// Cancelling the Start context must stop the server without Shutdown
	cancel()
	for i := 0; i < 20; i++ {
		resp, getErr := http.Get("http://127.0.0.1:19902/metrics")
		if getErr != nil {
			err = getErr
			break
		}
		resp.Body.Close()
		time.Sleep(50 * time.Millisecond)
	}
	require.Error(t, err, "server should stop serving after cancellation")

	shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	require.NoError(t, recorder.Shutdown(shutdownCtx))
}

func TestNopRecorder(t *testing.T) {
	recorder := NewNopRecorder()

	// Must be safe to call everywhere a real recorder is used
	recorder.RecordRequest(context.Background(), "list_tools", "200", time.Millisecond)
	recorder.RecordToolCall(context.Background(), "echo", "ok", time.Millisecond)
	recorder.RecordError(context.Background(), "transport", "list_tools")
	assert.NoError(t, recorder.Start(context.Background()))
	assert.NoError(t, recorder.Shutdown(context.Background()))
}
