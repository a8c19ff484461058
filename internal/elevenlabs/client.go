// Package elevenlabs is a minimal client for the ElevenLabs music API.
//
// Compose performs exactly one call per invocation; the audio route owns the
// single bounded retry for rejected prompts and detects that condition via
// the typed *RejectedPromptError.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const musicPath = "/v1/music"

// statusPromptRejected is the provider's signal that a prompt was refused
// but a usable replacement is available.
const statusPromptRejected = "prompt_rejected"

// ErrMissingAPIKey is returned by Compose before any request is built when
// the client has no credential. The audio route relies on this to
// short-circuit with zero upstream calls.
var ErrMissingAPIKey = errors.New("ELEVENLABS_API_KEY is not set")

// RejectedPromptError reports that the provider refused the submitted prompt
// and suggested a replacement. SuggestedPrompt is always non-empty.
type RejectedPromptError struct {
	Message         string
	SuggestedPrompt string
}

func (e *RejectedPromptError) Error() string {
	return fmt.Sprintf("prompt rejected by provider: %s", e.Message)
}

// StyleGuidance biases generation toward and away from the listed style tags.
type StyleGuidance struct {
	PositiveStyles []string `json:"positive_styles"`
	NegativeStyles []string `json:"negative_styles"`
}

// ComposeRequest is the wire format for POST /v1/music.
type ComposeRequest struct {
	Prompt        string         `json:"prompt"`
	MusicLengthMs int            `json:"music_length_ms"`
	StyleGuidance *StyleGuidance `json:"style_guidance,omitempty"`
}

// Config holds client construction options.
type Config struct {
	// APIKey sent as a Bearer token. Empty means Compose fails eagerly.
	APIKey string
	// BaseURL of the API, without trailing slash.
	BaseURL string
	// Timeout for a single call when HTTPClient is nil. Music synthesis is
	// slow; keep this generous.
	Timeout time.Duration
	// HTTPClient overrides the default transport. Tests use this.
	HTTPClient *http.Client
}

// Client calls the music-composition API. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
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
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Compose issues one music-composition request and returns the raw audio
// bytes. Never retries. Error cases:
//   - ErrMissingAPIKey before any I/O when the client is unconfigured
//   - *RejectedPromptError when the provider refuses the prompt and offers
//     a replacement
//   - a generic error for everything else
func (c *Client) Compose(ctx context.Context, req ComposeRequest) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding compose request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+musicPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building compose request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling music API: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading music response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("music request failed",
			"status", resp.StatusCode,
			"body", snippet(payload))
		return nil, c.decodeError(resp.StatusCode, payload)
	}

	return payload, nil
}

// errorDetail is the structured form of the provider's error body. The
// detail field can also be a plain string; decodeError handles both.
type errorDetail struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		SuggestedPrompt string `json:"suggested_prompt"`
	} `json:"data"`
}

func (c *Client) decodeError(status int, payload []byte) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Detail) > 0 {
		var detail errorDetail
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
			// Only a rejection that carries a replacement is recoverable;
			// a bare rejection is terminal like any other failure.
			if detail.Status == statusPromptRejected && detail.Data.SuggestedPrompt != "" {
				return &RejectedPromptError{
					Message:         detail.Message,
					SuggestedPrompt: detail.Data.SuggestedPrompt,
				}
			}
			if detail.Message != "" {
				return fmt.Errorf("music API returned status %d: %s", status, detail.Message)
			}
		}
		var plain string
		if err := json.Unmarshal(envelope.Detail, &plain); err == nil && plain != "" {
			return fmt.Errorf("music API returned status %d: %s", status, plain)
		}
	}
	return fmt.Errorf("music API returned status %d: %s", status, snippet(payload))
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
