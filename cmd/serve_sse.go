package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
	"github.com/velosovictor/graforest-mcp/internal/server"
)

// runSSEServer runs the server with SSE transport. Same middleware chain
// and shutdown behavior as streamable HTTP; only the MCP handler differs.
func runSSEServer(mcpSrv *mcpserver.MCPServer, ctx context.Context, config ServeConfig, provider *instrumentation.Provider, sc *server.ServerContext) error {
	mux := http.NewServeMux()

	sseServer := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(config.SSEEndpoint),
		mcpserver.WithMessageEndpoint(config.MessageEndpoint),
		mcpserver.WithSSEContextFunc(auth.HTTPContextFunc),
	)

	// The SSE server handles both the event stream and the message
	// endpoint, so it takes everything the mux doesn't claim explicitly.
	mux.Handle("/", sseServer)

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)
	card := server.BuildServerCard(sc.Config().ServerName, sc.Config().Version, rootCmd.Short)
	mux.Handle(server.ServerCardPath, server.ServerCardHandler(card))

	handler := buildHTTPHandler(mux, provider, sc)

	slog.Info("SSE server starting",
		"addr", config.HTTPAddr,
		"sse_endpoint", config.SSEEndpoint,
		"message_endpoint", config.MessageEndpoint,
		"health_endpoints", []string{"/health", "/healthz", "/readyz"})

	return serveWithShutdown(ctx, config, provider, &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	})
}
