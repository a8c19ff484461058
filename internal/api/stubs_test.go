package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/somascope/somascope/internal/cerebras"
	"github.com/somascope/somascope/internal/elevenlabs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response body %q: %v", w.Body.String(), err)
	}
}

// postJSON builds a JSON POST request for handler tests.
func postJSON(t *testing.T, path, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// stubChat implements ChatCompleter with one canned result.
type stubChat struct {
	mu      sync.Mutex
	calls   int
	last    []cerebras.Message
	payload json.RawMessage
	err     error
}

var _ ChatCompleter = (*stubChat)(nil)

func (s *stubChat) CreateCompletion(_ context.Context, messages []cerebras.Message) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = messages
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubChat) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubChat) lastMessages() []cerebras.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// composeResult is one scripted stubMusic response.
type composeResult struct {
	audio []byte
	err   error
}

// stubMusic implements MusicComposer, replaying scripted results in order
// and recording every request it sees.
type stubMusic struct {
	mu       sync.Mutex
	requests []elevenlabs.ComposeRequest
	script   []composeResult
}

var _ MusicComposer = (*stubMusic)(nil)

func (s *stubMusic) Compose(_ context.Context, req elevenlabs.ComposeRequest) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.script) == 0 {
		return nil, errors.New("stubMusic: script exhausted")
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next.audio, next.err
}

func (s *stubMusic) recorded() []elevenlabs.ComposeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]elevenlabs.ComposeRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
