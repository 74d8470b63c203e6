package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profpick/backend/services/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(serverURL string) *Adapter {
	return NewAdapter(Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
	})
}

func TestEmbedText(t *testing.T) {
	t.Run("returns embedding values", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var req embedContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Best CS professor?", req.Content.Parts[0].Text)

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"embedding": map[string]interface{}{
					"values": []float32{0.1, 0.2, 0.3},
				},
			})
		}))
		defer server.Close()

		adapter := newTestAdapter(server.URL)
		vector, err := adapter.EmbedText(context.Background(), "Best CS professor?")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	})

	t.Run("empty embedding is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"embedding": map[string]interface{}{"values": []float32{}},
			})
		}))
		defer server.Close()

		adapter := newTestAdapter(server.URL)
		_, err := adapter.EmbedText(context.Background(), "anything")

		require.Error(t, err)
	})

	t.Run("server error is retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
		}))
		defer server.Close()

		adapter := newTestAdapter(server.URL)
		_, err := adapter.EmbedText(context.Background(), "anything")

		require.Error(t, err)
		var provErr *providers.ProviderError
		require.True(t, errors.As(err, &provErr))
		assert.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
		assert.True(t, provErr.Retryable)
	})
}

func TestGenerateText(t *testing.T) {
	t.Run("concatenates candidate parts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"candidates": []map[string]interface{}{
					{
						"content": map[string]interface{}{
							"parts": []map[string]string{
								{"text": "Top picks: "},
								{"text": "Dr. A, Dr. B"},
							},
						},
						"finishReason": "STOP",
					},
				},
			})
		}))
		defer server.Close()

		adapter := newTestAdapter(server.URL)
		out, err := adapter.GenerateText(context.Background(), "prompt")

		require.NoError(t, err)
		assert.Equal(t, "Top picks: Dr. A, Dr. B", out)
	})

	t.Run("no candidates is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
		}))
		defer server.Close()

		adapter := newTestAdapter(server.URL)
		_, err := adapter.GenerateText(context.Background(), "prompt")

		require.Error(t, err)
	})

	t.Run("unreachable host is a retryable error", func(t *testing.T) {
		adapter := newTestAdapter("http://127.0.0.1:1")
		_, err := adapter.GenerateText(context.Background(), "prompt")

		require.Error(t, err)
		assert.True(t, providers.IsRetryable(err))
	})
}
