package server

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/instrumentation"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithBackendClient sets the backend client facade for the ServerContext.
func WithBackendClient(client backend.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingBackendClient
		}
		sc.backendClient = client
		return nil
	}
}

// WithFetcher sets the URL content fetcher for the ServerContext.
func WithFetcher(fetcher backend.Fetcher) Option {
	return func(sc *ServerContext) error {
		if fetcher == nil {
			return ErrMissingFetcher
		}
		sc.fetcher = fetcher
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithVersion sets the server version in the configuration.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithAPIKey sets the static graph API key used by the stdio transport.
// The key's shape is validated here so a misconfigured key fails at
// startup rather than on the first tool call.
func WithAPIKey(key string) Option {
	return func(sc *ServerContext) error {
		if key == "" {
			return nil
		}
		if err := auth.ValidateKeyShape(key); err != nil {
			return err
		}
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.APIKey = key
		return nil
	}
}

// WithReadOnlyMode enables or disables read-only mode. In read-only mode
// write and provisioning tools refuse to run.
func WithReadOnlyMode(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ReadOnlyMode = enabled
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithKeyCache sets a pre-built API key shape cache, shared with the HTTP
// auth middleware so both layers benefit from the same validations.
func WithKeyCache(cache *auth.ShapeCache) Option {
	return func(sc *ServerContext) error {
		if cache != nil {
			sc.keyCache = cache
		}
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingBackendClient = errors.New("backend client is required")
	ErrMissingFetcher       = errors.New("url fetcher is required")
	ErrMissingLogger        = errors.New("logger is required")
	ErrMissingConfig        = errors.New("configuration is required")
	ErrServerShutdown       = errors.New("server context has been shutdown")
)

// DefaultLogger is a simple logger implementation that wraps the standard library logger.
type DefaultLogger struct {
	logger *log.Logger
	level  string
}

// NewDefaultLogger creates a new default logger with standard error output.
func NewDefaultLogger() Logger {
	return &DefaultLogger{
		logger: log.New(os.Stderr, "[graforest-mcp] ", log.LstdFlags|log.Lshortfile),
		level:  "info",
	}
}

// Info logs an informational message.
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	l.logger.Printf("[INFO] "+msg, args...)
}

// Debug logs a debug message.
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	if l.level == "debug" {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

// Warn logs a warning message.
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	l.logger.Printf("[WARN] "+msg, args...)
}

// Error logs an error message.
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

// With returns a new logger with additional context fields.
func (l *DefaultLogger) With(args ...interface{}) Logger {
	// For the default logger, we'll just add the context to the prefix
	if len(args) > 0 {
		prefix := fmt.Sprintf("[graforest-mcp] %v ", args)
		return &DefaultLogger{
			logger: log.New(os.Stderr, prefix, log.LstdFlags|log.Lshortfile),
			level:  l.level,
		}
	}
	return l
}
