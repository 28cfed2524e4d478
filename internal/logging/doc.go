// Package logging provides structured logging utilities for the graforest-mcp application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Credential masking (API keys are logged as length indicators only)
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "search_knowledge_graph")
//	logger.Info("dispatching tool call",
//	    logging.Project(projectCode),
//	    logging.Environment("staging"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("caller authenticated",
//	    slog.String("api_key", logging.SanitizeAPIKey(key)),
//	    logging.Host(backendURL))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - API keys are never logged raw; only their length is recorded
//   - Backend URLs have IP addresses redacted to prevent topology leakage
//   - Error messages destined for logs can be sanitized with SanitizedErr
package logging
