// Package cerebras is a minimal client for the Cerebras chat-completion API.
//
// The client owns the fixed generation parameters (model, temperature, max
// tokens) and the transport; callers supply only the conversation. Responses
// are returned as raw JSON so the analysis route can relay them untouched.
package cerebras

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const completionsPath = "/v1/chat/completions"

// Message is one entry in a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest is the wire format for POST /v1/chat/completions.
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Config holds client construction options.
type Config struct {
	// APIKey sent as a Bearer token. May be empty: this provider has no
	// eager credential check, so an unconfigured key fails at the API.
	APIKey string
	// BaseURL of the API, without trailing slash.
	BaseURL string
	// Model identifier sent with every request.
	Model string
	// Temperature bound for generation.
	Temperature float64
	// MaxTokens bound for generated output.
	MaxTokens int
	// Timeout for a single call when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the default transport. Tests use this.
	HTTPClient *http.Client
}

// Client calls the chat-completion API. Safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates a Client. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// CreateCompletion issues exactly one chat-completion request and returns the
// provider's response body untouched. There is no retry: a failed call fails
// the caller's request.
func (c *Client) CreateCompletion(ctx context.Context, messages []Message) (json.RawMessage, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling chat completion API: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("chat completion request failed",
			"status", resp.StatusCode,
			"body", snippet(payload))
		return nil, fmt.Errorf("chat completion API returned status %d: %s",
			resp.StatusCode, snippet(payload))
	}

	return payload, nil
}

// snippet bounds upstream bodies before they reach logs or error strings.
func snippet(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
