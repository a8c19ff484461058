package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/somascope/somascope/internal/config"
	"github.com/somascope/somascope/internal/icons"
)

// runIcons renders the PWA icon set and favicon into the configured
// directory. Safe to run next to a live server; the server only reads the
// directory, and concurrent icons runs exclude each other via a file lock.
func runIcons() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir := cfg.Assets.IconsDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := icons.New(dir, slog.Default()).Generate(ctx); err != nil {
		return fmt.Errorf("generating icons: %w", err)
	}
	return nil
}
