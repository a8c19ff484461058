// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles configuration, the provider clients,
// the scene engine lifecycle, and the HTTP server. Entry points call Setup
// once and hold the App for the process lifetime; Close releases resources
// in reverse construction order.
package app

import (
	"context"

	"github.com/somascope/somascope/internal/api"
	"github.com/somascope/somascope/internal/canvas"
	"github.com/somascope/somascope/internal/cerebras"
	"github.com/somascope/somascope/internal/config"
	"github.com/somascope/somascope/internal/elevenlabs"
	"github.com/somascope/somascope/internal/log"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config
	Logger log.Logger

	// Upstream provider clients
	Chat  *cerebras.Client
	Music *elevenlabs.Client

	// Scene engine lifecycle. Registry tracks the process-wide engine slot;
	// Guard owns the engine mounted for the HTTP server.
	Registry *canvas.Registry
	Guard    *canvas.Guard

	Server *api.Server

	// telemetryShutdown flushes pending spans. Never nil after Setup.
	telemetryShutdown func(context.Context) error
}

// Close gracefully shuts down all resources. Safe to call after a partial
// Setup failure; nil members are skipped.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	// 1. Tear the scene engine down so no renderer outlives the server.
	if a.Guard != nil {
		a.Guard.Unmount()
	}

	// 2. Flush traces last so the teardown itself is still observable.
	if a.telemetryShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := a.telemetryShutdown(ctx); err != nil && a.Logger != nil {
			a.Logger.Warn("flushing traces on shutdown", "error", err)
		}
	}

	return nil
}
