package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/somascope/somascope/internal/cerebras"
)

// Fixed prompt frame for the analysis route. Only the caller's condition
// varies between requests; everything else is pinned so answers stay
// consistent and scoped to anatomy education.
const (
	analysisSystemPrompt = "You are a medical education assistant inside a 3D anatomy explorer. " +
		"Explain conditions in clear, non-alarming language for a general audience: what the " +
		"condition is, which anatomical structures it involves, and common symptoms. " +
		"Do not provide diagnosis or treatment advice."

	analysisUserPrefix = "Explain the following condition in the context of human anatomy: "
)

// analysisFallback is the static guidance returned alongside every analysis
// failure so the client always has something to render.
const analysisFallback = "Detailed analysis is unavailable right now. The selected " +
	"structure is still shown in the viewer; consult a trusted medical reference for specifics."

type analysisRequest struct {
	Condition string `json:"condition"`
}

// analysisErrorResponse is the error envelope for the analysis route. The
// provider payload is never mixed into it: a failed call yields this shape
// and nothing of the upstream body.
type analysisErrorResponse struct {
	Error    string `json:"error"`
	Fallback string `json:"fallback"`
}

type analysisHandler struct {
	chat   ChatCompleter
	logger *slog.Logger
}

// analyze proxies one condition explanation through the chat-completion
// provider. Exactly one upstream call per request; any failure becomes a
// 500 with the static error envelope, never a retry and never a partial
// pass-through.
func (h *analysisHandler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		writeError(w, http.StatusBadRequest, "condition is required")
		return
	}

	messages := []cerebras.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: analysisUserPrefix + condition},
	}

	payload, err := h.chat.CreateCompletion(r.Context(), messages)
	if err != nil {
		h.logger.Error("medical analysis failed",
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, analysisErrorResponse{
			Error:    "failed to analyze condition",
			Fallback: analysisFallback,
		})
		return
	}

	h.logger.Debug("medical analysis served",
		"condition_length", len(condition),
		"request_id", requestIDFromContext(r.Context()),
	)
	writeRawJSON(w, http.StatusOK, payload)
}
