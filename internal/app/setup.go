package app

import (
	"context"
	"fmt"
	"time"

	"github.com/somascope/somascope/internal/api"
	"github.com/somascope/somascope/internal/canvas"
	"github.com/somascope/somascope/internal/cerebras"
	"github.com/somascope/somascope/internal/config"
	"github.com/somascope/somascope/internal/elevenlabs"
	"github.com/somascope/somascope/internal/log"
	"github.com/somascope/somascope/internal/observability"
	"github.com/somascope/somascope/internal/scene"
)

// telemetryFlushTimeout bounds the trace flush during shutdown.
const telemetryFlushTimeout = 5 * time.Second

// Setup creates and initializes the application.
// Returns an App with embedded cleanup. Call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = log.New(log.Config{})
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.telemetryShutdown = provideTelemetryShutdown(ctx, cfg, logger)

	a.Chat = provideChatClient(cfg, logger)
	a.Music = provideMusicClient(cfg, logger)

	a.Registry = canvas.NewRegistry()
	a.Guard = provideSceneGuard(a.Registry, logger)

	server, err := provideServer(cfg, a, logger)
	if err != nil {
		return nil, err
	}
	a.Server = server

	return a, nil
}

// provideTelemetryShutdown sets up OTLP trace export before any request
// handling starts. Export failures degrade to a no-op rather than blocking
// startup; the returned flush func is never nil.
func provideTelemetryShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func(context.Context) error {
	shutdown, err := observability.SetupDatadog(ctx, observability.Config{
		Enabled:     cfg.Telemetry.Enabled,
		AgentHost:   cfg.Telemetry.AgentHost,
		Environment: cfg.Telemetry.Environment,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Warn("telemetry setup failed, tracing disabled", "error", err)
		return func(context.Context) error { return nil }
	}
	return shutdown
}

// provideChatClient creates the chat-completion client for the analysis
// route. A missing key is not an error here; the route reports it per
// request.
func provideChatClient(cfg *config.Config, logger log.Logger) *cerebras.Client {
	return cerebras.New(cerebras.Config{
		APIKey:      cfg.Cerebras.APIKey,
		BaseURL:     cfg.Cerebras.BaseURL,
		Model:       cfg.Cerebras.Model,
		Temperature: cfg.Cerebras.Temperature,
		MaxTokens:   cfg.Cerebras.MaxTokens,
		Timeout:     cfg.Cerebras.Timeout(),
	}, logger)
}

// provideMusicClient creates the music-composition client for the audio
// route.
func provideMusicClient(cfg *config.Config, logger log.Logger) *elevenlabs.Client {
	return elevenlabs.New(elevenlabs.Config{
		APIKey:  cfg.ElevenLabs.APIKey,
		BaseURL: cfg.ElevenLabs.BaseURL,
		Timeout: cfg.ElevenLabs.Timeout(),
	}, logger)
}

// provideSceneGuard wires the poster renderer behind the lifecycle guard.
// The factory runs on the first poster request, not at startup, so a broken
// rasterizer cannot keep the API from serving.
func provideSceneGuard(registry *canvas.Registry, logger log.Logger) *canvas.Guard {
	return canvas.NewGuard(registry, func(context.Context) (canvas.Engine, error) {
		return scene.NewRenderer()
	}, logger)
}

// provideServer assembles the HTTP server from the already-built providers.
func provideServer(cfg *config.Config, a *App, logger log.Logger) (*api.Server, error) {
	server, err := api.NewServer(api.ServerConfig{
		Logger:          logger,
		Chat:            a.Chat,
		Music:           a.Music,
		Guard:           a.Guard,
		CORSOrigins:     cfg.Server.CORSOrigins,
		IconsDir:        cfg.Assets.IconsDir,
		ChatConfigured:  cfg.Cerebras.APIKey != "",
		MusicConfigured: cfg.ElevenLabs.APIKey != "",
		IsDev:           cfg.Telemetry.Environment == "dev",
	})
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	return server, nil
}
