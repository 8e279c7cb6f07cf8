package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConstructors verifies kind and status assignment for each builder.
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		env    *Envelope
		kind   Kind
		status int
	}{
		{"Validation", Validation("missing field: %s", "customer_email"), KindValidation, http.StatusBadRequest},
		{"NotFound", NotFound("order not found"), KindNotFound, http.StatusNotFound},
		{"RateLimited", RateLimited("Rate limit exceeded"), KindRateLimited, http.StatusTooManyRequests},
		{"RemoteValidation", RemoteValidation("invalid query"), KindRemoteValidation, http.StatusBadRequest},
		{"Unavailable", Unavailable("Max retries exceeded", nil), KindUnavailable, http.StatusInternalServerError},
		{"Internal", Internal(errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.env.Kind)
			assert.Equal(t, tt.status, tt.env.Status)
			assert.NotEmpty(t, tt.env.Error())
		})
	}
}

// TestValidation_PrebuiltMessage verifies runtime-built messages pass through
// a "%s" call verbatim, percent signs included.
func TestValidation_PrebuiltMessage(t *testing.T) {
	msg := "Missing required fields: discount_pct (expected 0-100%)"
	env := Validation("%s", msg)
	assert.Equal(t, msg, env.Message)
}

// TestInternal_GenericMessage verifies internal faults never leak their cause text.
func TestInternal_GenericMessage(t *testing.T) {
	env := Internal(errors.New("pq: connection refused on 10.0.0.5"))
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, env.Error(), "10.0.0.5")
	assert.EqualError(t, env.Unwrap(), "pq: connection refused on 10.0.0.5")
}

// TestRemote verifies status-driven kind mapping for remote failures.
func TestRemote(t *testing.T) {
	assert.Equal(t, KindNotFound, Remote(404, "").Kind)
	assert.Equal(t, KindRemoteValidation, Remote(422, "unprocessable").Kind)
	assert.Equal(t, KindUnavailable, Remote(503, "").Kind)
	assert.Equal(t, 503, Remote(503, "").Status)
	assert.Equal(t, "remote API returned status 404", Remote(404, "").Message)
}

// TestFrom verifies envelope pass-through and internal coercion.
func TestFrom(t *testing.T) {
	env := NotFound("gone")
	require.Same(t, env, From(env))
	require.Same(t, env, From(fmt.Errorf("wrapped: %w", env)))

	coerced := From(errors.New("plain failure"))
	assert.Equal(t, KindInternal, coerced.Kind)
	assert.Equal(t, "Internal server error", coerced.Message)
}
