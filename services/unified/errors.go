package unified

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured is returned when an operation needs a provider whose
// credentials are missing from the server configuration.
var ErrNotConfigured = errors.New("provider not configured")

// ValidationError reports a missing or invalid caller parameter. Requests
// failing validation never reach a provider.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UpstreamError reports a failed provider call. StatusCode is 0 for
// connection-level failures, otherwise the provider's HTTP status.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s: HTTP %d", e.Provider, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return e.Provider + ": upstream failure"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFound reports whether the provider answered that the id does not exist.
func (e *UpstreamError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// Unauthorized reports whether the provider rejected our credentials.
func (e *UpstreamError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
