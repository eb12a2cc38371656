// Command gatewayctl lists the catalogs of an MCP server hosted behind an
// MCP Gateway and optionally invokes one tool with JSON parameters.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	gwerrors "github.com/mcpgateway/gateway-go/pkg/errors"
	"github.com/mcpgateway/gateway-go/pkg/gateway"
	"github.com/mcpgateway/gateway-go/pkg/logging"
	"github.com/mcpgateway/gateway-go/pkg/observability"
)

// Options defines the command-line surface
type Options struct {
	BaseURL     string `long:"base-url" default:"http://localhost:8080" description:"Base URL of the MCP Gateway"`
	ServerName  string `long:"server-name" default:"get-user" description:"Name of the MCP server to connect to"`
	Tool        string `long:"tool" description:"Name of the tool to invoke"`
	Params      string `long:"params" description:"JSON parameters for the tool"`
	Timeout     string `long:"timeout" default:"30s" description:"Per-request timeout"`
	LogLevel    string `long:"log-level" default:"info" description:"Log level (debug, info, warn, error)"`
	LogJSON     bool   `long:"log-json" description:"Emit logs as JSON"`
	MetricsAddr string `long:"metrics-addr" description:"Address for the Prometheus /metrics endpoint (disabled when empty)"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}

	var formatter logging.Formatter = logging.NewTextFormatter()
	if options.LogJSON {
		formatter = logging.NewJSONFormatter()
	}
	logger := logging.New(errOut, formatter)
	logger.SetLevel(logging.ParseLevel(options.LogLevel))

	timeout, err := time.ParseDuration(options.Timeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout value %q: %w", options.Timeout, err)
	}

	clientOptions := []gateway.Option{
		gateway.WithLogger(logger),
		gateway.WithTimeout(timeout),
	}

	if options.MetricsAddr != "" {
		recorder, err := observability.NewMetricsRecorder(observability.MetricsConfig{
			ServiceName: "gatewayctl",
			ListenAddr:  options.MetricsAddr,
		})
		if err != nil {
			return err
		}
		if err := recorder.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recorder.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Failed to stop metrics server")
			}
		}()
		clientOptions = append(clientOptions, gateway.WithMetrics(recorder))
	}

	client := gateway.New(options.BaseURL, options.ServerName, clientOptions...)

	// A failed catalog fetch is not fatal; whatever was fetched is listed
	if err := client.Initialize(ctx); err != nil {
		logger.WithError(err).Warn("Initialization completed with errors")
	}

	fmt.Fprintln(out, "Available tools:")
	for _, tool := range client.Tools() {
		fmt.Fprintf(out, "  - %s: %s\n", tool.Name(), tool.Description())
	}

	if options.Tool == "" {
		return nil
	}

	params := map[string]interface{}{}
	if options.Params != "" {
		// Refuse to touch the network with parameters that are not valid JSON
		if err := json.Unmarshal([]byte(options.Params), &params); err != nil {
			return gwerrors.InvalidParams(options.Params, err)
		}
	}

	fmt.Fprintf(out, "\nInvoking tool '%s' with parameters: %v\n", options.Tool, params)
	result, err := client.InvokeTool(ctx, options.Tool, params)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Result: %s\n", pretty)

	return nil
}
