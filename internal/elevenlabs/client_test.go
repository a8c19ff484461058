package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somascope/somascope/internal/log"
)

func newTestClient(t *testing.T, srv *httptest.Server, apiKey string) *Client {
	t.Helper()
	return New(Config{
		APIKey:     apiKey,
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
		HTTPClient: srv.Client(),
	}, log.NewNop())
}

func TestCompose(t *testing.T) {
	t.Parallel()

	audio := []byte("ID3\x04\x00fake-mpeg-frames")
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/music", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ComposeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gentle rain over a forest canopy", req.Prompt)
		assert.Equal(t, 45000, req.MusicLengthMs)
		require.NotNil(t, req.StyleGuidance)
		assert.Contains(t, req.StyleGuidance.PositiveStyles, "ambient")
		assert.Contains(t, req.StyleGuidance.NegativeStyles, "vocals")

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "test-key")
	got, err := client.Compose(context.Background(), ComposeRequest{
		Prompt:        "gentle rain over a forest canopy",
		MusicLengthMs: 45000,
		StyleGuidance: &StyleGuidance{
			PositiveStyles: []string{"ambient", "calm"},
			NegativeStyles: []string{"vocals", "loud"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, audio, got, "audio bytes must pass through unmodified")
	assert.Equal(t, int64(1), calls.Load())
}

func TestComposeOmitsGuidanceWhenNil(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "style_guidance")
		_, _ = w.Write([]byte("audio"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "test-key")
	_, err := client.Compose(context.Background(), ComposeRequest{
		Prompt:        "soft piano",
		MusicLengthMs: 60000,
	})
	require.NoError(t, err)
}

func TestComposeMissingKeySkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "")
	_, err := client.Compose(context.Background(), ComposeRequest{Prompt: "anything", MusicLengthMs: 1000})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, int64(0), calls.Load(), "no request may leave the process without a key")
}

func TestComposeRejectedPrompt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"detail": {
				"status": "prompt_rejected",
				"message": "prompt contains disallowed content",
				"data": {"suggested_prompt": "calm neutral ambient track"}
			}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "test-key")
	_, err := client.Compose(context.Background(), ComposeRequest{Prompt: "bad prompt", MusicLengthMs: 2000})
	require.Error(t, err)

	var rejected *RejectedPromptError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "prompt contains disallowed content", rejected.Message)
	assert.Equal(t, "calm neutral ambient track", rejected.SuggestedPrompt)
}

func TestComposeRejectionWithoutSuggestionIsTerminal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": {"status": "prompt_rejected", "message": "rejected"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "test-key")
	_, err := client.Compose(context.Background(), ComposeRequest{Prompt: "bad prompt", MusicLengthMs: 2000})
	require.Error(t, err)

	var rejected *RejectedPromptError
	assert.False(t, errors.As(err, &rejected), "rejection without a replacement must not look recoverable")
}

func TestComposeStringDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid api key"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "wrong-key")
	_, err := client.Compose(context.Background(), ComposeRequest{Prompt: "x", MusicLengthMs: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestComposeNonJSONError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "test-key")
	_, err := client.Compose(context.Background(), ComposeRequest{Prompt: "x", MusicLengthMs: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")

	var rejected *RejectedPromptError
	assert.False(t, errors.As(err, &rejected))
}
