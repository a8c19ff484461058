// Package observability provides OpenTelemetry integration for distributed tracing.
//
// # Architecture Decision: Datadog Agent Mode
//
// Traces go to a local Datadog Agent over OTLP HTTP instead of the direct
// API endpoint:
//
//   - Agent provides local buffering and retry
//   - Lower latency (localhost vs internet roundtrip)
//   - Agent handles authentication - no DD_API_KEY in the app
//
// # Enable OTLP Receiver
//
// Add to the agent's datadog.yaml:
//
//	otlp_config:
//	  receiver:
//	    protocols:
//	      http:
//	        endpoint: "localhost:4318"
//	  traces:
//	    enabled: true
//	    span_name_as_resource_name: true
//
// Verify with:
//
//	datadog-agent status | grep -A 5 "OTLP"
//
// # Configuration
//
// Config file (~/.somascope/config.yaml):
//
//	telemetry:
//	  enabled: true
//	  agent_host: "localhost:4318"
//	  environment: "dev"
//	  service_name: "somascope"
//
// Traces cover inbound API requests and outbound provider calls and appear
// in APM within 1-2 minutes after shutdown (flush).
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for Datadog OTEL setup.
type Config struct {
	// Enabled gates the whole pipeline. When false Setup is a no-op.
	Enabled bool
	// AgentHost is the Datadog Agent OTLP endpoint (default: localhost:4318)
	AgentHost string
	// Environment is the deployment environment (dev, staging, prod)
	Environment string
	// ServiceName is the service name shown in Datadog APM
	ServiceName string
}

// DefaultAgentHost is the default Datadog Agent OTLP HTTP endpoint.
const DefaultAgentHost = "localhost:4318"

// SetupDatadog wires the global TracerProvider to the local Datadog Agent.
// An exporter construction failure is returned to the caller, which decides
// whether the service runs untraced or refuses to start.
//
// Returns a shutdown function that flushes pending spans.
func SetupDatadog(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	agentHost := cfg.AgentHost
	if agentHost == "" {
		agentHost = DefaultAgentHost
	}

	// The SDK's default resource detector reads these, so the service name
	// and environment tag show up without hand-building a resource.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(agentHost),
		otlptracehttp.WithInsecure(), // localhost doesn't need TLS
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	slog.Debug("datadog tracing enabled",
		"agent", agentHost,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	// Create a test span to verify the pipeline works
	tracer := tp.Tracer("somascope-init")
	_, span := tracer.Start(ctx, "somascope.init")
	span.End()

	return tp.Shutdown, nil
}
