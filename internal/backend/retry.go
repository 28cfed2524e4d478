package backend

import (
	"context"
	"errors"
	"strings"
	"time"
)

// doWithRetry runs op up to attempts times with exponential backoff,
// honoring context cancellation between attempts. Only transient failures
// are retried; anything else is returned immediately. Write operations
// must not go through this helper.
func doWithRetry(ctx context.Context, attempts int, backoff time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			// Exponential backoff: backoff * 2^(attempt-2) before retry n.
			wait := backoff * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// isRetryableError reports whether the failure is transient enough to be
// worth another attempt. Certificate problems are permanent and excluded
// even though they surface as connection failures.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if isTLSError(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrBackendTimeout) || errors.Is(err, ErrBackendUnavailable)
}

// isTLSError detects certificate and TLS handshake failures.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	tlsPatterns := []string{
		"certificate",
		"x509",
		"tls",
		"handshake",
	}
	for _, pattern := range tlsPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
