package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/src/clients/ollama"
	"stocksim/src/config"
)

func newClient(baseURL, model string) *ollama.OllamaClient {
	cfg := &config.Config{}
	cfg.ExternalClients.Ollama.BaseURL = baseURL
	cfg.ExternalClients.Ollama.Model = model
	return ollama.NewClient(cfg)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("sends a non-streaming request and returns the text", func(t *testing.T) {
		var gotBody map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/generate", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"response": "  The trend is upward.  ", "done": true}`))
		}))
		defer server.Close()

		text, err := newClient(server.URL, "phi3").Generate(ctx, "explain this trend")
		require.NoError(t, err)
		assert.Equal(t, "The trend is upward.", text)
		assert.Equal(t, "phi3", gotBody["model"])
		assert.Equal(t, "explain this trend", gotBody["prompt"])
		assert.Equal(t, false, gotBody["stream"])
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newClient(server.URL, "phi3").Generate(ctx, "prompt")
		require.Error(t, err)
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response": "   ", "done": true}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL, "phi3").Generate(ctx, "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no text")
	})

	t.Run("unreachable server is an error", func(t *testing.T) {
		_, err := newClient("http://127.0.0.1:1", "phi3").Generate(ctx, "prompt")
		require.Error(t, err)
	})
}
