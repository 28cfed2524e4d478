// Package server provides the ServerContext pattern and related infrastructure
// for the graforest MCP gateway.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - Logger Interface: Abstraction for logging operations
//   - Configuration Management: Centralized server configuration
//   - HealthChecker: Liveness and readiness probes for HTTP deployments
//   - MetricsServer: Dedicated Prometheus scrape endpoint
//   - ServerCard: Well-known discovery document for MCP clients
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - Backend client facade (graph reads/writes and provisioning)
//   - URL content fetcher
//   - Logger interface
//   - API key resolution (static stdio key or per-request bearer token)
//   - Configuration settings
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//
// All dependencies are injected using functional options, making the code
// highly testable and modular.
//
// Example usage:
//
//	// Create a server context with custom configuration
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithBackendClient(client),
//		WithFetcher(fetcher),
//		WithLogger(customLogger),
//		WithReadOnlyMode(true),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	// Use the context in MCP tools
//	client := serverCtx.BackendClient()
//	key, err := serverCtx.APIKeyForContext(requestCtx)
//
//	// Check if server is shutting down
//	if serverCtx.IsShutdown() {
//		return ErrServerShutdown
//	}
//
// API Key Resolution:
//
// On stdio transport a single key is configured at startup and used for
// every request. On HTTP transports each request carries its own bearer
// token, injected into the request context by the auth middleware. The
// APIKeyForContext method hides this difference from tool handlers.
package server
