// Package cmd provides the command-line interface for graforest-mcp.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified, so the
// binary can be dropped into an MCP client configuration as-is.
//
// Command Structure:
//
//	graforest-mcp [flags]                 # Starts the MCP server (default)
//	graforest-mcp serve [flags]           # Explicitly starts the MCP server
//	graforest-mcp version                 # Shows version information
//	graforest-mcp self-update             # Updates to latest release
//	graforest-mcp help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	graforest-mcp serve --transport stdio           # Default STDIO transport
//	graforest-mcp serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	graforest-mcp serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports flags for credentials (--api-key for stdio,
// --rb-api-key for provisioning), read-only mode, backend retry and timeout
// policy, and the dedicated metrics server.
package cmd
