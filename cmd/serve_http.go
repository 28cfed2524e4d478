package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/server/middleware"
)

// maxRequestBytes caps HTTP request bodies. Bulk writes top out at 500
// items, so anything larger than this is not a legitimate tool call.
const maxRequestBytes = 10 << 20 // 10 MiB

// runStreamableHTTPServer runs the server with Streamable HTTP transport.
// Every MCP request must carry a bearer key; health probes and the server
// card are exempt.
func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, ctx context.Context, config ServeConfig, provider *instrumentation.Provider, sc *server.ServerContext) error {
	mux := http.NewServeMux()

	// Create Streamable HTTP handler. The context function lifts the
	// Authorization bearer key into the request context for tool handlers.
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
		mcpserver.WithHTTPContextFunc(auth.HTTPContextFunc),
	)

	// Add MCP endpoint
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	// Add health check endpoints and the discovery card
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)
	card := server.BuildServerCard(sc.Config().ServerName, sc.Config().Version, rootCmd.Short)
	mux.Handle(server.ServerCardPath, server.ServerCardHandler(card))

	handler := buildHTTPHandler(mux, provider, sc)

	slog.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"health_endpoints", []string{"/health", "/healthz", "/readyz"})

	return serveWithShutdown(ctx, config, provider, &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	})
}

// buildHTTPHandler applies the shared middleware chain for network
// transports: request size cap, bearer shape gate, CORS, security
// headers, and HTTP metrics (outermost).
func buildHTTPHandler(mux *http.ServeMux, provider *instrumentation.Provider, sc *server.ServerContext) http.Handler {
	var handler http.Handler = mux
	handler = middleware.MaxRequestSize(maxRequestBytes)(handler)
	handler = auth.RequireBearer(sc.KeyCache(), slog.Default())(handler)
	allowedOrigins, err := middleware.ValidateAllowedOrigins(os.Getenv("ALLOWED_ORIGINS"))
	if err != nil {
		slog.Warn("ignoring invalid ALLOWED_ORIGINS", "error", err)
		allowedOrigins = nil
	}
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
		EnableHSTS: os.Getenv("ENABLE_HSTS") == envValueTrue,
	})(handler)
	handler = middleware.HTTPMetrics(provider)(handler)
	return handler
}

// serveWithShutdown starts the HTTP server plus the optional metrics
// server and blocks until the context is cancelled or the server stops.
func serveWithShutdown(ctx context.Context, config ServeConfig, provider *instrumentation.Provider, httpServer *http.Server) error {
	// Start metrics server if enabled (separate listener for security)
	var metricsServer *server.MetricsServer
	if config.Metrics.Enabled && provider != nil && provider.Enabled() {
		var err error
		metricsServer, err = startMetricsServer(config.Metrics, provider)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// Start server in goroutine
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	// Wait for either shutdown signal or server completion
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		// Shutdown metrics server first
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error shutting down metrics server", "error", err)
			}
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		slog.Info("HTTP server stopped normally")
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the dedicated metrics server on a separate port.
// This isolates Prometheus metrics from the main application traffic.
func startMetricsServer(config MetricsServeConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Start metrics server in background
	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	slog.Info("metrics server started", "addr", metricsServer.Addr(), "endpoint", "/metrics")
	return metricsServer, nil
}
