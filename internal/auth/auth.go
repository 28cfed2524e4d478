// Package auth implements the credential shape gate for the graforest
// gateway. Caller keys are opaque bearer tokens; this package checks their
// shape only. Whether a key is actually valid is the backend's decision.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// KeyPrefix is the prefix all caller API keys start with.
const KeyPrefix = "gf_sk_"

// ServiceKeyPrefix is the prefix of the provisioning service-account key.
const ServiceKeyPrefix = "rb_sk_"

// bearerPrefix is the Authorization scheme prefix per RFC 6750.
const bearerPrefix = "Bearer "

// minKeyBody is the minimum number of characters after the prefix.
const minKeyBody = 20

// Shape validation sentinel errors.
var (
	ErrKeyMissing   = errors.New("API key is required")
	ErrKeyMalformed = fmt.Errorf("invalid API key format: must start with %q", KeyPrefix)
	ErrKeyTooShort  = errors.New("API key is too short")
)

// ValidateKeyShape checks that a caller API key has the expected shape:
// the gf_sk_ prefix followed by at least 20 characters. It never contacts
// a backend.
func ValidateKeyShape(key string) error {
	return validateShape(key, KeyPrefix)
}

// ValidateServiceKeyShape checks the provisioning service-account key shape
// (rb_sk_ prefix, same length rule).
func ValidateServiceKeyShape(key string) error {
	if key == "" {
		return ErrKeyMissing
	}
	if !strings.HasPrefix(key, ServiceKeyPrefix) {
		return fmt.Errorf("invalid service key format: must start with %q", ServiceKeyPrefix)
	}
	if len(key) < len(ServiceKeyPrefix)+minKeyBody {
		return ErrKeyTooShort
	}
	return nil
}

func validateShape(key, prefix string) error {
	if key == "" {
		return ErrKeyMissing
	}
	if !strings.HasPrefix(key, prefix) {
		return ErrKeyMalformed
	}
	if len(key) < len(prefix)+minKeyBody {
		return ErrKeyTooShort
	}
	return nil
}

// ExtractBearer returns the token from an Authorization header value.
// Returns the empty string when the header is absent or uses a different
// scheme.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, bearerPrefix)
}

// contextKey is a private type for context values set by this package.
type contextKey string

const apiKeyContextKey contextKey = "graforest-api-key"

// WithAPIKey returns a context carrying the caller's API key.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey, key)
}

// APIKeyFromContext returns the caller's API key stored on the context.
func APIKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(string)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// HTTPContextFunc injects the bearer token from the incoming HTTP request
// into the request context so tool handlers can read it. Shape enforcement
// happens earlier, in the RequireBearer middleware; this function only
// transports the value.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	key := ExtractBearer(r.Header.Get("Authorization"))
	if key == "" {
		return ctx
	}
	return WithAPIKey(ctx, key)
}
