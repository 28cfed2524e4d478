// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// FormatJSONResult marshals a value to indented JSON and wraps it in a
// text tool result. Marshal failures become error results so the caller
// always receives a ToolResult.
func FormatJSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult converts an error from the backend facade into a tool
// error result using the taxonomy's user-facing message.
func ErrorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(backend.UserFacingMessage(err))
}

// GraphTargetFromRequest assembles the graph API target for a tool call:
// the required project_code argument, the environment argument (default
// staging), and the caller's API key resolved from the server context.
// A non-nil result means the call must stop and return it.
func GraphTargetFromRequest(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (backend.GraphTarget, *mcp.CallToolResult) {
	args := request.GetArguments()

	projectCode, ok := args["project_code"].(string)
	if !ok || projectCode == "" {
		return backend.GraphTarget{}, mcp.NewToolResultError("project_code parameter is required")
	}

	environment, errResult := EnvironmentFromArgs(args)
	if errResult != nil {
		return backend.GraphTarget{}, errResult
	}

	key, err := sc.APIKeyForContext(ctx)
	if err != nil {
		// Shape-gate messages are generated locally and surface verbatim.
		return backend.GraphTarget{}, ErrorResult(&backend.AuthError{Err: err})
	}

	return backend.GraphTarget{
		ProjectCode: projectCode,
		Environment: environment,
		APIKey:      key,
	}, nil
}
