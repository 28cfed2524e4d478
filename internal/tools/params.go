// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"fmt"

	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/backend"
)

// EnvironmentParam returns the tool option for the shared environment
// argument. Every graph-facing tool carries it with the same enum and
// default.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	    /* tool-specific params */
//	}
//	opts = append(opts, tools.EnvironmentParam())
//	tool := mcp.NewTool("tool_name", opts...)
func EnvironmentParam() mcp.ToolOption {
	return mcp.WithString("environment",
		mcp.Description("Target environment"),
		mcp.Enum(backend.EnvStaging, backend.EnvProduction),
		mcp.DefaultString(backend.EnvStaging),
	)
}

// EnvironmentFromArgs reads the environment argument, applying the
// staging default and rejecting anything outside the enum. A non-nil
// result means the call must stop and return it.
func EnvironmentFromArgs(args map[string]any) (string, *mcp.CallToolResult) {
	env, ok := args["environment"].(string)
	if !ok || env == "" {
		return backend.EnvStaging, nil
	}
	if env != backend.EnvStaging && env != backend.EnvProduction {
		return "", mcp.NewToolResultError(fmt.Sprintf(
			"environment must be %q or %q", backend.EnvStaging, backend.EnvProduction))
	}
	return env, nil
}

// RequiredString reads a required string argument. A non-nil result
// means the argument was missing or empty.
func RequiredString(args map[string]any, name string) (string, *mcp.CallToolResult) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", mcp.NewToolResultError(name + " parameter is required")
	}
	return value, nil
}

// OptionalString reads an optional string argument, returning empty when
// absent or not a string.
func OptionalString(args map[string]any, name string) string {
	value, _ := args[name].(string)
	return value
}

// IntFromArgs reads a numeric argument. JSON numbers arrive as float64;
// integers pass through when the caller constructed arguments in Go.
func IntFromArgs(args map[string]any, name string, fallback int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// PageBounds validates and normalizes limit/offset arguments for list
// operations. A non-nil result means the call must stop and return it.
func PageBounds(args map[string]any) (limit, offset int, errResult *mcp.CallToolResult) {
	limit = IntFromArgs(args, "limit", backend.DefaultPageSize)
	offset = IntFromArgs(args, "offset", 0)

	if limit < 0 {
		return 0, 0, mcp.NewToolResultError("limit must not be negative")
	}
	if limit == 0 {
		limit = backend.DefaultPageSize
	}
	if limit > backend.MaxPageSize {
		return 0, 0, mcp.NewToolResultError(fmt.Sprintf("limit must not exceed %d", backend.MaxPageSize))
	}
	if offset < 0 {
		return 0, 0, mcp.NewToolResultError("offset must not be negative")
	}
	return limit, offset, nil
}

// ClampDepth applies the traversal depth default and hard cap.
func ClampDepth(args map[string]any) int {
	depth := IntFromArgs(args, "max_depth", backend.DefaultTraversalDepth)
	if depth <= 0 {
		depth = backend.DefaultTraversalDepth
	}
	if depth > backend.MaxTraversalDepth {
		depth = backend.MaxTraversalDepth
	}
	return depth
}

// DirectionFromArgs reads the traversal direction argument, defaulting
// to both. A non-nil result means the value was outside the enum.
func DirectionFromArgs(args map[string]any) (string, *mcp.CallToolResult) {
	direction, ok := args["direction"].(string)
	if !ok || direction == "" {
		return backend.DirectionBoth, nil
	}
	switch direction {
	case backend.DirectionOutgoing, backend.DirectionIncoming, backend.DirectionBoth:
		return direction, nil
	default:
		return "", mcp.NewToolResultError("direction must be outgoing, incoming, or both")
	}
}
