// Package instrumentation provides OpenTelemetry instrumentation for the
// graforest-mcp gateway.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, tool invocations, and backend calls
//   - Distributed tracing for tool handling and backend API requests
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//   - Structured audit logging for every tool invocation
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_mcp_sessions: Gauge of active MCP sessions
//
// Tool Invocation Metrics:
//   - mcp_tool_calls_total: Counter of tool invocations by tool, family, status
//   - mcp_tool_call_duration_seconds: Histogram of tool invocation durations
//
// Backend Request Metrics:
//   - backend_requests_total: Counter of backend requests by backend, operation, status
//   - backend_request_duration_seconds: Histogram of backend request durations
//
// # Cardinality Considerations
//
// Tool names are a fixed, small set, so they are safe as labels. Project
// codes are not: a gateway serving many knowledge graph projects would mint
// one label value per project. Backend metrics therefore omit project_code
// unless METRICS_DETAILED_LABELS=true, and environment values are normalized
// to staging/production/other before recording.
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - MCP tool invocations (tool.<name>, server kind)
//   - Backend API calls (graph.<op>, provisioning.<op>, fetch.<op>, client kind)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: graforest-mcp)
//   - METRICS_DETAILED_LABELS: Include project_code in backend metrics (default: false)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "graforest-mcp",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record a tool invocation
//	recorder.RecordToolCall(ctx, "search_knowledge_graph", "success", time.Since(start))
package instrumentation
