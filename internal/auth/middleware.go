package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/velosovictor/graforest-mcp/internal/logging"
)

// exemptPaths are served without credentials: health probes and MCP
// discovery documents.
var exemptPaths = []string{
	"/health",
	"/readyz",
	"/.well-known/",
}

// jsonRPCAuthErrorCode is the JSON-RPC error code returned for rejected
// credentials, in the server-defined range.
const jsonRPCAuthErrorCode = -32001

// isExempt reports whether the path is served without authentication.
func isExempt(path string) bool {
	for _, p := range exemptPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p {
			return true
		}
	}
	return false
}

// RequireBearer returns middleware enforcing the bearer key shape gate on
// MCP endpoints. Requests with a missing or malformed key are rejected with
// 401 and a JSON-RPC error body before they reach MCP dispatch. Validation
// results are cached in the bounded shape cache.
func RequireBearer(cache *ShapeCache, logger *slog.Logger) func(http.Handler) http.Handler {
	if cache == nil {
		cache = NewShapeCache(DefaultCacheSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := ExtractBearer(r.Header.Get("Authorization"))
			if err := cache.Validate(key); err != nil {
				logger.Warn("rejected request credential",
					slog.String("path", r.URL.Path),
					slog.String("api_key", logging.SanitizeAPIKey(key)),
					logging.Err(err),
				)
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError writes the 401 response for a failed shape check:
// WWW-Authenticate per RFC 6750 plus a JSON-RPC error body so MCP clients
// surface a structured failure instead of a transport drop.
func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="graforest", error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)

	body := map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    jsonRPCAuthErrorCode,
			"message": "authentication failed: " + err.Error(),
		},
		"id": nil,
	}
	_ = json.NewEncoder(w).Encode(body)
}
