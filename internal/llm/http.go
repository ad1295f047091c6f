// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// apiURL is the messages endpoint. Package-level var for test substitution.
var apiURL = "https://api.anthropic.com/v1/messages"

// HTTP calls a hosted messages API as the generation engine.
type HTTP struct {
	model      string
	apiKey     string
	maxRetries int
	timeout    time.Duration
	client     *http.Client
}

// NewHTTP validates the remote engine configuration and returns an
// HTTP-backed generator.
func NewHTTP(cfg types.EngineConfig) (*HTTP, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine model not configured")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("engine api_key not configured: set it in config or .secrets/llm-api-key")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &HTTP{
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		timeout:    timeout,
		client:     &http.Client{},
	}, nil
}

// apiRequest is the request body for the messages API.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

// apiMessage is a single message in the conversation.
type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiResponse is the response body from the messages API.
type apiResponse struct {
	Content []apiContent `json:"content"`
}

// apiContent is a content block in the response.
type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate posts the prompt to the messages API and returns the first
// text block, run through sentinel extraction for parity with the
// process backend.
func (h *HTTP) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	body, err := json.Marshal(apiRequest{
		Model:     h.model,
		MaxTokens: 1024,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", h.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, h.client, req, h.maxRetries)
	if err != nil {
		return "", fmt.Errorf("calling engine API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("engine API returned %d: %s", resp.StatusCode, string(b))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decoding engine response: %w", err)
	}

	for _, block := range apiResp.Content {
		if block.Type != "text" {
			continue
		}
		out := ExtractOutput(block.Text)
		if out == "" {
			return "", fmt.Errorf("engine returned empty text")
		}
		return out, nil
	}

	return "", fmt.Errorf("no text content in engine response")
}
