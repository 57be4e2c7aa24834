// Package ollama is a thin client for a local Ollama instance, used to turn
// forecasts into plain-English explanations.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stocksim/src/config"
	"stocksim/src/utils/requests"
)

const defaultModel = "phi3"

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type OllamaClientI interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type OllamaClient struct {
	baseURL string
	model   string
	api     *requests.ExternalAPIService
}

func NewClient(cfg *config.Config) *OllamaClient {
	timeout := time.Duration(cfg.ExternalClients.Ollama.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		// Local models can be slow to load.
		timeout = 180 * time.Second
	}
	model := cfg.ExternalClients.Ollama.Model
	if model == "" {
		model = defaultModel
	}
	return &OllamaClient{
		baseURL: strings.TrimSuffix(cfg.ExternalClients.Ollama.BaseURL, "/"),
		model:   model,
		api:     requests.NewExternalAPIService(timeout),
	}
}

// Generate runs a non-streaming completion and returns the generated text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}

	resp, err := c.api.Post(ctx, c.baseURL+"/api/generate", nil, body)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("ollama returned no text")
	}
	return text, nil
}
