package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors forming the closed failure taxonomy. Every failed tool
// call maps to exactly one of these.
var (
	// ErrAuth indicates a missing or malformed caller credential.
	ErrAuth = errors.New("authentication error")

	// ErrValidation indicates the request failed local validation and
	// never reached a backend.
	ErrValidation = errors.New("validation error")

	// ErrBackendTimeout indicates a backend call exceeded its deadline.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrBackendUnavailable indicates the backend could not be reached
	// or answered with a server error.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendRejected indicates the backend understood and refused the
	// request (4xx: validation, not found, auth).
	ErrBackendRejected = errors.New("backend rejected request")

	// ErrInternal is the catch-all for unexpected gateway failures.
	ErrInternal = errors.New("internal error")
)

// BackendError wraps a failed backend call with enough context for logs
// while keeping the user-facing message generic.
type BackendError struct {
	// Backend names the upstream system ("graph", "provisioning", "fetch").
	Backend string

	// Operation is the facade operation that failed.
	Operation string

	// StatusCode is the HTTP status, when one was received.
	StatusCode int

	// Kind is the taxonomy sentinel this failure maps to.
	Kind error

	// Detail is a summarized, log-safe description of the failure.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Backend, e.Operation, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *BackendError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is reports whether this error maps to the given taxonomy sentinel.
func (e *BackendError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// UserFacingError returns a message safe to surface in a tool result.
// It names the taxonomy category without leaking backend response bodies
// or network topology.
func (e *BackendError) UserFacingError() string {
	switch {
	case errors.Is(e.Kind, ErrBackendTimeout):
		return fmt.Sprintf("the %s backend did not respond in time, try again later", e.Backend)
	case errors.Is(e.Kind, ErrBackendUnavailable):
		return fmt.Sprintf("the %s backend is currently unavailable, try again later", e.Backend)
	case errors.Is(e.Kind, ErrBackendRejected):
		if e.Detail != "" {
			return fmt.Sprintf("the %s backend rejected the request: %s", e.Backend, e.Detail)
		}
		return fmt.Sprintf("the %s backend rejected the request", e.Backend)
	default:
		return "an unexpected error occurred"
	}
}

// AuthError wraps a credential failure from the key shape gate. Auth
// failures never reach a backend; the wrapped message is generated
// locally and surfaces verbatim.
type AuthError struct {
	// Err is the shape-gate error describing what was wrong with the key.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the shape-gate error for error chain traversal.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the auth sentinel.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// ValidationError describes a request rejected by local validation.
// Validation failures never reach a backend.
type ValidationError struct {
	// Field is the offending argument, when attributable.
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is the validation sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserFacingError returns the validation message for tool results.
// Validation reasons are generated locally and safe to show.
func (e *ValidationError) UserFacingError() string {
	return e.Error()
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// classifyStatus maps an HTTP status code onto the taxonomy.
func classifyStatus(status int) error {
	switch {
	case status >= 500:
		return ErrBackendUnavailable
	case status >= 400:
		return ErrBackendRejected
	default:
		return ErrInternal
	}
}

// summarizeBody reduces a backend response body to a short, single-line
// summary. Bodies are never forwarded verbatim.
func summarizeBody(body []byte) string {
	const maxLen = 200
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// UserFacingMessage extracts the user-facing message from any error in the
// taxonomy, falling back to a generic message for anything unexpected.
func UserFacingMessage(err error) string {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.UserFacingError()
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.UserFacingError()
	}
	switch {
	case errors.Is(err, ErrAuth):
		return err.Error()
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrBackendTimeout):
		return "the backend did not respond in time, try again later"
	case errors.Is(err, ErrBackendUnavailable):
		return "the backend is currently unavailable, try again later"
	case errors.Is(err, ErrBackendRejected):
		return "the backend rejected the request"
	default:
		return "an unexpected error occurred"
	}
}
