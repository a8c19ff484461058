package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/somascope/somascope/internal/canvas"
	"github.com/somascope/somascope/internal/scene"
)

const (
	posterCacheControl = "public, max-age=3600"
	// maxPosterEdge bounds caller-supplied dimensions so one request cannot
	// allocate an arbitrarily large frame.
	maxPosterEdge = 2048
)

type sceneHandler struct {
	guard  *canvas.Guard
	logger *slog.Logger
}

// poster serves a PNG frame of the anatomy scene. The first request mounts
// the shared engine through the lifecycle guard; later requests reuse it.
// While no engine is live the placeholder is served with no-store so
// clients keep asking until the real frame exists.
func (h *sceneHandler) poster(w http.ResponseWriter, r *http.Request) {
	width := posterDimension(r, "w")
	height := posterDimension(r, "h")

	if h.guard != nil {
		if err := h.guard.Mount(r.Context()); err != nil && !errors.Is(err, canvas.ErrGuardDisposed) {
			h.logger.Warn("scene engine mount failed",
				"error", err,
				"request_id", requestIDFromContext(r.Context()),
			)
		}
		if renderer, ok := h.guard.Engine().(*scene.Renderer); ok {
			frame, err := renderer.Poster(width, height)
			if err == nil {
				writePNG(w, frame, posterCacheControl)
				return
			}
			h.logger.Warn("poster render failed, serving placeholder", "error", err)
		}
	}

	frame, err := scene.Placeholder(width, height)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render scene")
		return
	}
	writePNG(w, frame, "no-store")
}

func writePNG(w http.ResponseWriter, frame []byte, cacheControl string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(frame); err != nil {
		slog.Debug("failed to write poster body", "error", err)
	}
}

// posterDimension reads a bounded dimension query parameter. Zero means the
// renderer's default; values below a readable minimum are treated as unset.
func posterDimension(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 16 {
		return 0
	}
	return min(n, maxPosterEdge)
}
