package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"support-bridge/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExporter(serverURL string) *ConvocoreClient {
	return NewConvocoreClient(config.ConvocoreConfig{
		BaseURL: serverURL,
		AgentID: "agent-1",
		APIKey:  "key123",
	}, config.HTTPConfig{Retries: 3, RateLimitDelaySeconds: 1, TimeoutSeconds: 2})
}

// TestExport verifies the endpoint, bearer auth and record decoding.
func TestExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agents/agent-1/convos/export", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))

		w.Write([]byte(`{"data": [
			{"id": "convo-1", "metadata": {"convo": {"ts": 1747747800}}, "turns": [{"role": "user", "text": "hi"}]},
			{"id": "convo-2", "metadata": {}}
		]}`))
	}))
	defer server.Close()

	convos, err := newTestExporter(server.URL).Export(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, convos, 2)

	assert.Equal(t, "convo-1", convos[0].ID)
	assert.Equal(t, "2025-05", convos[0].Month())
	assert.Contains(t, string(convos[0].Raw), `"turns"`)

	assert.Equal(t, "convo-2", convos[1].ID)
	assert.Empty(t, convos[1].Month())
}

// TestExport_NoPageSize verifies the parameter is omitted when unset.
func TestExport_NoPageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("page_size"))
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	convos, err := newTestExporter(server.URL).Export(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, convos)
}

// TestDelete verifies the delete endpoint and method.
func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/agents/agent-1/convos/convo-1", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestExporter(server.URL).Delete(context.Background(), "convo-1")
	require.NoError(t, err)
}
