package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/backend"
)

// Environment variable names recognized by the serve command. Flags take
// precedence; env vars fill in values the user did not set explicitly.
const (
	envAPIKey          = "GRAFOREST_API_KEY"
	envRBAPIKey        = "GRAFOREST_RB_API_KEY"
	envProvisioningURL = "RATIONALBLOKS_MCP_URL"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Credentials. APIKey is the static graph key for stdio; RBAPIKey is
	// the service-account key for the provisioning gateway.
	APIKey   string
	RBAPIKey string

	// ProvisioningURL overrides the default provisioning gateway endpoint.
	ProvisioningURL string

	// Behavior settings
	ReadOnly  bool
	DebugMode bool

	// Backend policy knobs
	RetryAttempts       int
	RetryBackoff        time.Duration
	GraphTimeout        time.Duration
	ProvisioningTimeout time.Duration
	FetchTimeout        time.Duration

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds configuration for the dedicated metrics server.
type MetricsServeConfig struct {
	// Enabled starts a separate HTTP server exposing /metrics.
	Enabled bool

	// Addr is the listen address for the metrics server.
	Addr string
}

// Policy converts the configured knobs into a backend policy. Zero values
// fall back to the backend defaults.
func (c ServeConfig) Policy() backend.Policy {
	return backend.Policy{
		RetryAttempts:              c.RetryAttempts,
		RetryBackoff:               c.RetryBackoff,
		GraphRequestTimeout:        c.GraphTimeout,
		ProvisioningRequestTimeout: c.ProvisioningTimeout,
		FetchTimeout:               c.FetchTimeout,
	}
}

// validate checks the credential configuration for the chosen transport.
// stdio requires a static graph API key up front; network transports take
// the key per request from the Authorization header instead.
func (c ServeConfig) validate() error {
	switch c.Transport {
	case transportStdio:
		if c.APIKey == "" {
			return fmt.Errorf("stdio transport requires a graph API key (--api-key or %s)", envAPIKey)
		}
		if err := auth.ValidateKeyShape(c.APIKey); err != nil {
			return fmt.Errorf("invalid graph API key: %w", err)
		}
	case transportSSE, transportStreamableHTTP:
		if c.APIKey != "" {
			return fmt.Errorf("--api-key is only valid with the stdio transport; %s clients send their key in the Authorization header", c.Transport)
		}
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", c.Transport)
	}

	if c.RBAPIKey != "" {
		if err := auth.ValidateServiceKeyShape(c.RBAPIKey); err != nil {
			return fmt.Errorf("invalid provisioning service key: %w", err)
		}
	}

	return nil
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return d, true
}

// parseIntEnv parses an integer from an environment variable value.
// Returns the parsed int and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return n, true
}
