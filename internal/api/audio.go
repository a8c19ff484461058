package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/somascope/somascope/internal/elevenlabs"
)

// defaultDurationMs is used when the caller omits the duration or sends a
// non-positive one.
const defaultDurationMs = 60_000

// audioCacheControl pins generated tracks in caches for an hour. Generation
// is slow and expensive; identical prompts within the hour reuse the bytes.
const audioCacheControl = "public, max-age=3600"

// defaultStyleGuidance biases every first attempt toward backdrop music for
// an anatomy viewer and away from anything startling. The retry after a
// rejected prompt deliberately omits it: the replacement prompt comes from
// the provider and is sent exactly as suggested.
var defaultStyleGuidance = &elevenlabs.StyleGuidance{
	PositiveStyles: []string{"ambient", "calm", "soothing", "instrumental", "atmospheric", "meditative"},
	NegativeStyles: []string{"aggressive", "loud", "harsh", "distorted", "vocals", "spoken word"},
}

type audioRequest struct {
	Prompt string `json:"prompt"`
	// Duration is the requested track length in milliseconds.
	Duration int `json:"duration"`
	// Type labels the request for logs (soundtrack, effect). It is never
	// forwarded upstream.
	Type string `json:"type"`
}

// audioErrorResponse is the error envelope for the audio route.
type audioErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type audioHandler struct {
	music  MusicComposer
	logger *slog.Logger
}

// generate proxies one ambient-audio request. At most two upstream calls
// ever happen: the initial attempt, plus exactly one retry when the provider
// rejects the prompt and supplies a replacement. A missing credential fails
// inside the client before any call leaves the process.
func (h *audioHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	duration := req.Duration
	if duration <= 0 {
		duration = defaultDurationMs
	}

	requestID := requestIDFromContext(r.Context())
	h.logger.Debug("audio generation requested",
		"type", req.Type,
		"duration_ms", duration,
		"request_id", requestID,
	)

	audio, err := h.music.Compose(r.Context(), elevenlabs.ComposeRequest{
		Prompt:        prompt,
		MusicLengthMs: duration,
		StyleGuidance: defaultStyleGuidance,
	})

	var rejected *elevenlabs.RejectedPromptError
	if errors.As(err, &rejected) && rejected.SuggestedPrompt != "" {
		h.logger.Info("prompt rejected, retrying with provider suggestion",
			"request_id", requestID,
		)
		audio, err = h.music.Compose(r.Context(), elevenlabs.ComposeRequest{
			Prompt:        rejected.SuggestedPrompt,
			MusicLengthMs: duration,
		})
	}

	if err != nil {
		h.logger.Error("audio generation failed",
			"error", err,
			"request_id", requestID,
		)
		writeJSON(w, http.StatusInternalServerError, audioErrorResponse{
			Error:   "failed to generate audio",
			Details: err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", audioCacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.logger.Debug("failed to write audio body", "error", err)
	}
}
