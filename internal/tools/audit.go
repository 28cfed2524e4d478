// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
	"github.com/velosovictor/graforest-mcp/internal/server"
)

// WrapWithAuditLogging wraps a tool handler with instrumentation.
// The wrapper automatically captures:
//   - Tool invocation timing and a per-invocation request ID
//   - Project and entity information from request arguments
//   - Success/error status from the handler result
//   - OpenTelemetry trace context for correlation
//
// Tool-call metrics and the audit log line come from the instrumentation
// provider. Without a provider the handler runs untouched, so stdio
// deployments pay nothing for this.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provider := sc.InstrumentationProvider()
		if provider == nil || provider.AuditLogger() == nil {
			return handler(ctx, request, sc)
		}

		args := request.GetArguments()

		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName,
			spanAttrsFromArgs(toolName, args, sc.ReadOnlyMode())...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithRequestID(uuid.NewString()).
			WithSpanContext(spanCtx)
		applyAuditInfoFromArgs(invocation, args)

		start := time.Now()
		result, err := handler(spanCtx, request, sc)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			invocation.Complete(false, nil)
			// MCP tool errors travel in the result, not as Go errors.
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics := provider.Metrics(); metrics != nil {
			metrics.RecordToolCall(spanCtx, toolName, invocation.Status(), duration)
		}

		provider.AuditLogger().LogToolInvocation(spanCtx, invocation)

		return result, err
	}
}

// applyAuditInfoFromArgs extracts project and entity information from tool
// request arguments for audit logging. Only cardinality-safe values are
// taken; free-form content arguments never reach the log.
func applyAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]any) {
	projectCode, _ := args["project_code"].(string)
	environment, _ := args["environment"].(string)
	if projectCode != "" || environment != "" {
		invocation.WithProject(projectCode, environment)
	}

	if entityType := extractEntityType(args); entityType != "" {
		invocation.WithEntityType(entityType)
	}
}

// extractEntityType finds the entity type across the argument names the
// catalogue uses for it.
func extractEntityType(args map[string]any) string {
	for _, key := range []string{"entity_type", "start_entity_type"} {
		if entityType, ok := args[key].(string); ok && entityType != "" {
			return entityType
		}
	}
	return ""
}

// spanAttrsFromArgs builds the span attribute set for a tool invocation.
func spanAttrsFromArgs(toolName string, args map[string]any, readOnly bool) []attribute.KeyValue {
	projectCode, _ := args["project_code"].(string)
	environment, _ := args["environment"].(string)

	builder := instrumentation.NewSpanAttributeBuilder().
		WithTool(toolName).
		WithReadOnly(readOnly)
	if projectCode != "" {
		builder = builder.WithProject(projectCode, environment)
	}
	if entityType := extractEntityType(args); entityType != "" {
		builder = builder.WithEntityType(entityType)
	}
	return builder.Build()
}
