package server

import (
	"context"
	"sync"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	backendClient backend.Client
	fetcher       backend.Fetcher
	logger        Logger
	config        *Config

	// API key shape validation cache, shared across requests
	keyCache *auth.ShapeCache

	// Metrics tracking
	metrics *Metrics

	// Observability
	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// Metrics tracks operational metrics for monitoring
type Metrics struct {
	// API key resolution metrics
	StaticKeyUses  int64 // Requests served with the configured stdio key
	ContextKeyUses int64 // Requests served with a per-request bearer key
	KeyFailures    int64 // Requests where no usable key was found

	mu sync.RWMutex
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncrementStaticKeyUses increments the static key counter
func (m *Metrics) IncrementStaticKeyUses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaticKeyUses++
}

// IncrementContextKeyUses increments the per-request key counter
func (m *Metrics) IncrementContextKeyUses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContextKeyUses++
}

// IncrementKeyFailures increments the key resolution failure counter
func (m *Metrics) IncrementKeyFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeyFailures++
}

// GetMetrics returns a snapshot of current metrics
func (m *Metrics) GetMetrics() (static, context, failures int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.StaticKeyUses, m.ContextKeyUses, m.KeyFailures
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:      serverCtx,
		cancel:   cancel,
		config:   NewDefaultConfig(),
		logger:   NewDefaultLogger(),
		keyCache: auth.NewShapeCache(auth.DefaultCacheSize),
		metrics:  NewMetrics(),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// BackendClient returns the backend client facade for graph and
// provisioning operations.
func (sc *ServerContext) BackendClient() backend.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.backendClient
}

// Fetcher returns the URL content fetcher.
func (sc *ServerContext) Fetcher() backend.Fetcher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.fetcher
}

// APIKeyForContext resolves the graph API key for a request.
//
// On stdio the key is configured once at startup and shared by every
// request. On HTTP transports each request carries its own bearer token,
// which the auth middleware stores in the request context. The static key
// takes precedence when both are present.
func (sc *ServerContext) APIKeyForContext(ctx context.Context) (string, error) {
	sc.mu.RLock()
	staticKey := sc.config.APIKey
	sc.mu.RUnlock()

	if staticKey != "" {
		sc.metrics.IncrementStaticKeyUses()
		return staticKey, nil
	}

	key, ok := auth.APIKeyFromContext(ctx)
	if !ok || key == "" {
		sc.metrics.IncrementKeyFailures()
		return "", auth.ErrKeyMissing
	}

	if err := sc.keyCache.Validate(key); err != nil {
		sc.metrics.IncrementKeyFailures()
		return "", err
	}

	sc.metrics.IncrementContextKeyUses()
	return key, nil
}

// KeyCache returns the API key shape validation cache.
func (sc *ServerContext) KeyCache() *auth.ShapeCache {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.keyCache
}

// ReadOnlyMode returns true when write and provisioning tools are refused.
func (sc *ServerContext) ReadOnlyMode() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.ReadOnlyMode
}

// Metrics returns the metrics tracker.
func (sc *ServerContext) Metrics() *Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// InstrumentationProvider returns the OpenTelemetry instrumentation
// provider, or nil when instrumentation was not configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Logger returns the logger interface.
func (sc *ServerContext) Logger() Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.backendClient == nil {
		return ErrMissingBackendClient
	}
	if sc.fetcher == nil {
		return ErrMissingFetcher
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Logger defines the interface for logging operations.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, args ...interface{})

	// Debug logs a debug message.
	Debug(msg string, args ...interface{})

	// Warn logs a warning message.
	Warn(msg string, args ...interface{})

	// Error logs an error message.
	Error(msg string, args ...interface{})

	// With returns a new logger with additional context fields.
	With(args ...interface{}) Logger
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Static graph API key for stdio transport. Empty on HTTP transports,
	// where each request carries its own bearer token.
	APIKey string `json:"-"`

	// Read-only mode refuses write and provisioning tools.
	ReadOnlyMode bool `json:"readOnlyMode"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:   "graforest-mcp",
		Version:      "0.1.0",
		ReadOnlyMode: false,
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}
