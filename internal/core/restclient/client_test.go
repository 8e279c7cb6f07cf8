package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"support-bridge/internal/core/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at url with sleeps recorded instead of taken.
func newTestClient(url string, retries int) (*Client, *[]time.Duration) {
	c := New(Options{
		BaseURL:        url,
		Retries:        retries,
		RateLimitDelay: 60 * time.Second,
		Timeout:        2 * time.Second,
	}, BasicAuth("user@example.com", "token"))

	var slept []time.Duration
	c.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}
	return c, &slept
}

// TestExecute_Success verifies auth injection and JSON parsing.
func TestExecute_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "resolved", r.URL.Query().Get("filter"))

		w.Write([]byte(`{"total_count": 3}`))
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, 3)

	raw, err := client.Execute(context.Background(), http.MethodGet, "/conversations", nil, map[string][]string{"filter": {"resolved"}})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, float64(3), parsed["total_count"])
}

// TestExecute_EmptyBody verifies an empty response maps to an empty object.
func TestExecute_EmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, 3)

	raw, err := client.Execute(context.Background(), http.MethodDelete, "/conversations/abc", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

// TestExecute_RateLimited verifies the 429 budget: with retries=3 and a server
// that always throttles, the client sleeps exactly twice and surfaces a
// RateLimited envelope on the third attempt.
func TestExecute_RateLimited(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client, slept := newTestClient(ts.URL, 3)

	_, err := client.Execute(context.Background(), http.MethodGet, "/articles", nil, nil)
	require.Error(t, err)

	env := apperr.From(err)
	assert.Equal(t, apperr.KindRateLimited, env.Kind)
	assert.Equal(t, http.StatusTooManyRequests, env.Status)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, *slept, 2)
	assert.Equal(t, 60*time.Second, (*slept)[0])
	assert.Equal(t, 60*time.Second, (*slept)[1])
}

// TestExecute_RateLimitedThenSuccess verifies recovery after a single 429.
func TestExecute_RateLimitedThenSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	client, slept := newTestClient(ts.URL, 3)

	raw, err := client.Execute(context.Background(), http.MethodGet, "/articles", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
	assert.Len(t, *slept, 1)
}

// TestExecute_TransportRetry verifies exponential backoff after connection failures.
func TestExecute_TransportRetry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse all connections

	client, slept := newTestClient(ts.URL, 3)

	_, err := client.Execute(context.Background(), http.MethodGet, "/conversations", nil, nil)
	require.Error(t, err)

	env := apperr.From(err)
	assert.Equal(t, apperr.KindUnavailable, env.Kind)
	assert.Equal(t, http.StatusInternalServerError, env.Status)

	require.Len(t, *slept, 2)
	assert.Equal(t, 1*time.Second, (*slept)[0])
	assert.Equal(t, 2*time.Second, (*slept)[1])
}

// TestExecute_RemoteErrorNoRetry verifies non-429 HTTP errors propagate immediately.
func TestExecute_RemoteErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Conversation not found"}`))
	}))
	defer ts.Close()

	client, slept := newTestClient(ts.URL, 3)

	_, err := client.Execute(context.Background(), http.MethodGet, "/conversations/nope", nil, nil)
	require.Error(t, err)

	env := apperr.From(err)
	assert.Equal(t, apperr.KindNotFound, env.Kind)
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "Conversation not found", env.Message)

	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *slept)
}

// TestGraphQL_Success verifies the data field is unwrapped.
func TestGraphQL_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req["query"], "orders")

		w.Write([]byte(`{"data": {"orders": {"edges": []}}}`))
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, 3)

	data, err := client.GraphQL(context.Background(), "query { orders { edges } }", map[string]any{"q": `name:"#1001"`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orders": {"edges": []}}`, string(data))
}

// TestGraphQL_ErrorsArray verifies a 200 with errors becomes RemoteValidation.
func TestGraphQL_ErrorsArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "Field 'bogus' doesn't exist"}]}`))
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, 3)

	_, err := client.GraphQL(context.Background(), "query { bogus }", nil)
	require.Error(t, err)

	env := apperr.From(err)
	assert.Equal(t, apperr.KindRemoteValidation, env.Kind)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, env.Message, "bogus")
}
