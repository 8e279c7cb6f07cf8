package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the response boundary can map it to an HTTP
// status without inspecting message text.
type Kind string

const (
	// KindValidation indicates missing or malformed caller input.
	KindValidation Kind = "validation"
	// KindNotFound indicates a resolvable entity is absent.
	KindNotFound Kind = "not_found"
	// KindRateLimited indicates remote throttling exhausted the retry budget.
	KindRateLimited Kind = "rate_limited"
	// KindRemoteValidation indicates the remote API rejected the request semantically.
	KindRemoteValidation Kind = "remote_validation"
	// KindUnavailable indicates a transport failure after retry exhaustion.
	KindUnavailable Kind = "unavailable"
	// KindInternal indicates an unexpected local fault.
	KindInternal Kind = "internal"
)

// Envelope is the typed error passed through unmodified from the point of
// failure up to the response boundary.
type Envelope struct {
	// Kind is the failure classification.
	Kind Kind
	// Status is the HTTP status to surface to the caller.
	Status int
	// Message is the client-facing error text.
	Message string
	// cause is the underlying error, kept for logging only.
	cause error
}

// Error implements the error interface.
func (e *Envelope) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Envelope) Unwrap() error {
	return e.cause
}

// Validation builds a caller-input error (HTTP 400).
func Validation(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindValidation, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds an absent-entity error (HTTP 404).
func NotFound(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// RateLimited builds a throttling error (HTTP 429).
func RateLimited(message string) *Envelope {
	return &Envelope{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Message: message}
}

// RemoteValidation builds a remote-rejection error (HTTP 400).
func RemoteValidation(message string) *Envelope {
	return &Envelope{Kind: KindRemoteValidation, Status: http.StatusBadRequest, Message: message}
}

// Unavailable builds a transport-failure error (HTTP 500).
func Unavailable(message string, cause error) *Envelope {
	return &Envelope{Kind: KindUnavailable, Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// Internal wraps an unexpected fault. The client-facing message is generic;
// the cause is retained for server-side logging only.
func Internal(cause error) *Envelope {
	return &Envelope{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal server error", cause: cause}
}

// Remote maps a non-2xx remote response to an envelope carrying the remote
// status. 429 is not mapped here; the request client handles it with retries.
func Remote(status int, message string) *Envelope {
	kind := KindRemoteValidation
	switch {
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status >= 500:
		kind = KindUnavailable
	}
	if message == "" {
		message = fmt.Sprintf("remote API returned status %d", status)
	}
	return &Envelope{Kind: kind, Status: status, Message: message}
}

// From coerces any error into an Envelope. Non-envelope errors become
// Internal so no local error text leaks to the caller.
func From(err error) *Envelope {
	var env *Envelope
	if errors.As(err, &env) {
		return env
	}
	return Internal(err)
}
