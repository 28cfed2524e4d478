package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools/guides"
	"github.com/velosovictor/graforest-mcp/internal/tools/ingest"
	"github.com/velosovictor/graforest-mcp/internal/tools/provisioning"
	"github.com/velosovictor/graforest-mcp/internal/tools/read"
	"github.com/velosovictor/graforest-mcp/internal/tools/utility"
	"github.com/velosovictor/graforest-mcp/internal/tools/write"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// serverInstructions is sent to MCP clients during initialization.
const serverInstructions = `Graforest MCP Server — Knowledge Graph Data Operations

Store, search, and explore Knowledge Graphs. NO AI inside — YOU are the intelligence.

FAST INGESTION (recommended — 3 tool calls):
1. ingest_text_content(project_code, text) → returns schema + extraction instructions
2. Extract ALL entities and relationships from the text in one pass
3. add_knowledge_nodes(project_code, entities) → bulk create all nodes
4. add_knowledge_relationships(project_code, relationships) → bulk create all edges

EXPLORATION:
- search_knowledge_graph → full-text search across all properties
- traverse_knowledge_graph → walk connections from a node
- list_knowledge_entities / get_knowledge_entity → read data

MANAGEMENT:
- list_knowledge_projects → find your graph
- create_knowledge_project → provision a new graph
- get_knowledge_schema → see entity types and fields

13 tools: 3 provisioning + 2 data write + 6 read + 1 ingestion + 1 utility`

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		apiKey          string
		rbAPIKey        string
		provisioningURL string
		readOnly        bool
		debugMode       bool

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Backend policy options
		retryAttempts       int
		retryBackoff        time.Duration
		graphTimeout        time.Duration
		provisioningTimeout time.Duration
		fetchTimeout        time.Duration

		// Metrics server options
		enableMetrics bool
		metricsAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Graforest MCP server",
		Long: `Start the Graforest MCP server to provide knowledge graph tools
via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Credentials:
  - stdio: the graph API key is supplied at startup (--api-key or
    GRAFOREST_API_KEY) and used for every tool call in the session.
  - sse / streamable-http: each request carries its own key in the
    Authorization: Bearer header; --api-key must not be set.
  - Provisioning tools additionally need the service-account key
    (--rb-api-key or GRAFOREST_RB_API_KEY).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Env fallbacks apply only when the flag was not set explicitly.
			if !cmd.Flags().Changed("api-key") {
				loadEnvIfEmpty(&apiKey, envAPIKey)
			}
			if !cmd.Flags().Changed("rb-api-key") {
				loadEnvIfEmpty(&rbAPIKey, envRBAPIKey)
			}
			if !cmd.Flags().Changed("rb-url") {
				loadEnvIfEmpty(&provisioningURL, envProvisioningURL)
			}
			if !cmd.Flags().Changed("retry-attempts") {
				if n, ok := parseIntEnv(os.Getenv("GRAFOREST_RETRY_ATTEMPTS"), "GRAFOREST_RETRY_ATTEMPTS"); ok {
					retryAttempts = n
				}
			}
			if !cmd.Flags().Changed("retry-backoff") {
				if d, ok := parseDurationEnv(os.Getenv("GRAFOREST_RETRY_BACKOFF"), "GRAFOREST_RETRY_BACKOFF"); ok {
					retryBackoff = d
				}
			}
			if !cmd.Flags().Changed("graph-timeout") {
				if d, ok := parseDurationEnv(os.Getenv("GRAFOREST_GRAPH_TIMEOUT"), "GRAFOREST_GRAPH_TIMEOUT"); ok {
					graphTimeout = d
				}
			}
			if !cmd.Flags().Changed("provisioning-timeout") {
				if d, ok := parseDurationEnv(os.Getenv("GRAFOREST_PROVISIONING_TIMEOUT"), "GRAFOREST_PROVISIONING_TIMEOUT"); ok {
					provisioningTimeout = d
				}
			}
			if !cmd.Flags().Changed("fetch-timeout") {
				if d, ok := parseDurationEnv(os.Getenv("GRAFOREST_FETCH_TIMEOUT"), "GRAFOREST_FETCH_TIMEOUT"); ok {
					fetchTimeout = d
				}
			}
			if !cmd.Flags().Changed("enable-metrics") && os.Getenv("METRICS_SERVER_ENABLED") == envValueTrue {
				enableMetrics = true
			}
			if !cmd.Flags().Changed("metrics-addr") {
				loadEnvIfEmpty(&metricsAddr, "METRICS_SERVER_ADDR")
			}

			config := ServeConfig{
				Transport:           transport,
				HTTPAddr:            httpAddr,
				SSEEndpoint:         sseEndpoint,
				MessageEndpoint:     messageEndpoint,
				HTTPEndpoint:        httpEndpoint,
				APIKey:              apiKey,
				RBAPIKey:            rbAPIKey,
				ProvisioningURL:     provisioningURL,
				ReadOnly:            readOnly,
				DebugMode:           debugMode,
				RetryAttempts:       retryAttempts,
				RetryBackoff:        retryBackoff,
				GraphTimeout:        graphTimeout,
				ProvisioningTimeout: provisioningTimeout,
				FetchTimeout:        fetchTimeout,
				Metrics: MetricsServeConfig{
					Enabled: enableMetrics,
					Addr:    metricsAddr,
				},
			}
			return runServe(config)
		},
	}

	// Credential flags
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Graph API key for stdio transport (can also be set via GRAFOREST_API_KEY env var)")
	cmd.Flags().StringVar(&rbAPIKey, "rb-api-key", "", "Provisioning service-account key (can also be set via GRAFOREST_RB_API_KEY env var)")
	cmd.Flags().StringVar(&provisioningURL, "rb-url", "", "Provisioning gateway URL (can also be set via RATIONALBLOKS_MCP_URL env var)")

	// Behavior flags
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Refuse provisioning and write tools (default: false)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (default: false)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Backend policy flags
	cmd.Flags().IntVar(&retryAttempts, "retry-attempts", backend.DefaultRetryAttempts, "Retry attempts for idempotent backend reads")
	cmd.Flags().DurationVar(&retryBackoff, "retry-backoff", backend.DefaultRetryBackoff, "Base backoff between retries (doubles per attempt)")
	cmd.Flags().DurationVar(&graphTimeout, "graph-timeout", backend.DefaultGraphRequestTimeout, "Per-request timeout for graph API calls")
	cmd.Flags().DurationVar(&provisioningTimeout, "provisioning-timeout", backend.DefaultProvisioningRequestTimeout, "Per-request timeout for provisioning gateway calls")
	cmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", backend.DefaultFetchTimeout, "Timeout for URL content fetches")

	// Metrics server flags
	cmd.Flags().BoolVar(&enableMetrics, "enable-metrics", false, "Start the dedicated metrics server (can also be set via METRICS_SERVER_ENABLED env var)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (can also be set via METRICS_SERVER_ADDR env var)")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	if err := config.validate(); err != nil {
		return err
	}

	// Logs go to stderr so the stdio transport keeps stdout clean.
	logLevel := slog.LevelInfo
	if config.DebugMode {
		logLevel = slog.LevelDebug
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(slogger)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		slogger.Info("OpenTelemetry instrumentation enabled",
			"metrics", instrumentationConfig.MetricsExporter,
			"tracing", instrumentationConfig.TracingExporter)
	}

	// Build the backend clients
	policy := config.Policy()
	graphAPI := backend.NewGraphAPI(policy, slogger)
	provisioningClient := backend.NewProvisioningClient(config.ProvisioningURL, config.RBAPIKey, policy, slogger)
	backendClient := backend.NewClient(graphAPI, provisioningClient)
	fetcher := backend.NewURLFetcher(policy)

	// Create server context with backend clients and shutdown context
	serverContextOptions := []server.Option{
		server.WithBackendClient(backendClient),
		server.WithFetcher(fetcher),
		server.WithInstrumentationProvider(instrumentationProvider),
		server.WithVersion(rootCmd.Version),
		server.WithReadOnlyMode(config.ReadOnly),
	}
	if config.Transport == transportStdio {
		serverContextOptions = append(serverContextOptions, server.WithAPIKey(config.APIKey))
	}

	serverContext, err := server.NewServerContext(shutdownCtx, serverContextOptions...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	if config.ReadOnly {
		slogger.Info("read-only mode enabled: provisioning and write tools will be refused")
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("graforest", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithInstructions(serverInstructions),
	)

	// Register all tool families
	if err := provisioning.RegisterProvisioningTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register provisioning tools: %w", err)
	}

	if err := write.RegisterWriteTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register write tools: %w", err)
	}

	if err := read.RegisterReadTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}

	if err := ingest.RegisterIngestTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register ingest tools: %w", err)
	}

	if err := utility.RegisterUtilityTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register utility tools: %w", err)
	}

	// Register workflow prompts and documentation resources
	if err := guides.RegisterPrompts(mcpSrv); err != nil {
		return fmt.Errorf("failed to register prompts: %w", err)
	}
	if err := guides.RegisterResources(mcpSrv); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		fmt.Printf("Starting Graforest MCP server with %s transport...\n", config.Transport)
		return runSSEServer(mcpSrv, shutdownCtx, config, instrumentationProvider, serverContext)
	case transportStreamableHTTP:
		fmt.Printf("Starting Graforest MCP server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(mcpSrv, shutdownCtx, config, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
