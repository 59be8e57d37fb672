package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Equal(t, float64(1024), req["max_tokens"])
		assert.NotEmpty(t, req["system"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"hello "},{"type":"tool_use"},{"type":"text","text":"world"}]}`))
	}))
	defer server.Close()

	c := New(server.URL, "test-key", "test-model", 1024)
	resp, err := c.Complete(context.Background(), "system prompt", []ContentBlock{TextBlock("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.JoinText())
}

func TestClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	c := New(server.URL, "k", "m", 10)
	_, err := c.Complete(context.Background(), "s", []ContentBlock{TextBlock("hi")})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusTooManyRequests, reqErr.StatusCode)
	assert.Contains(t, reqErr.Error(), "overloaded")
}

func TestClient_Complete_NetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", "k", "m", 10)
	_, err := c.Complete(context.Background(), "s", []ContentBlock{TextBlock("hi")})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestImageBlock(t *testing.T) {
	b := ImageBlock("image/png", "aGVsbG8=")
	assert.Equal(t, "image", b.Type)
	require.NotNil(t, b.Source)
	assert.Equal(t, "base64", b.Source.Type)
	assert.Equal(t, "image/png", b.Source.MediaType)
}
