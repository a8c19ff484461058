package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/somascope/somascope/internal/canvas"
	"github.com/somascope/somascope/internal/cerebras"
	"github.com/somascope/somascope/internal/elevenlabs"
	"github.com/somascope/somascope/internal/web"
)

// maxBodyBytes caps JSON request bodies. Both proxy routes carry short
// prompts; anything larger is a mistake.
const maxBodyBytes = 1 << 20

// ChatCompleter is the chat-completion provider the analysis route talks to.
type ChatCompleter interface {
	CreateCompletion(ctx context.Context, messages []cerebras.Message) (json.RawMessage, error)
}

// MusicComposer is the music-composition provider the audio route talks to.
type MusicComposer interface {
	Compose(ctx context.Context, req elevenlabs.ComposeRequest) ([]byte, error)
}

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger          *slog.Logger
	Chat            ChatCompleter // Required
	Music           MusicComposer // Required
	Guard           *canvas.Guard // Optional: nil serves placeholder posters only
	CORSOrigins     []string      // Allowed origins for CORS
	IconsDir        string        // Optional: serves /icons/ from disk when set
	ChatConfigured  bool          // Reported by /ready
	MusicConfigured bool          // Reported by /ready
	IsDev           bool          // Disables HSTS
}

// Server is the HTTP surface: the AI proxy routes, the scene poster, and
// the static shell.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat completer is required")
	}
	if cfg.Music == nil {
		return nil, errors.New("music composer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ah := &analysisHandler{chat: cfg.Chat, logger: logger}
	au := &audioHandler{music: cfg.Music, logger: logger}
	sc := &sceneHandler{guard: cfg.Guard, logger: logger}

	mux := http.NewServeMux()

	// AI proxy routes
	mux.HandleFunc("POST /api/medical-analysis", ah.analyze)
	mux.HandleFunc("POST /api/audio-generation", au.generate)

	// Scene poster
	mux.HandleFunc("GET /scene/poster.png", sc.poster)

	// Generated icons are build artifacts served from disk so an icon
	// rebuild does not require recompiling the server.
	if cfg.IconsDir != "" {
		mux.Handle("GET /icons/", http.StripPrefix("/icons/", http.FileServer(http.Dir(cfg.IconsDir))))
	}

	// Application shell
	mux.Handle("GET /", web.Handler())

	// Build middleware stack (outermost first):
	//   Tracing → Recovery → RequestID → Logging → CORS → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be innermost of the four so preflight OPTIONS is still logged.
	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)
	handler = otelhttp.NewHandler(handler, "somascope.http")

	// Wrap with security headers
	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate health probes from middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.ChatConfigured, cfg.MusicConfigured))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
