// Package cmd provides the somascope CLI commands.
//
// Commands:
//   - serve: HTTP API server for the anatomy explorer
//   - icons: generate the PWA icon set from the brand mark
//
// Signal handling and graceful shutdown are implemented for all commands
// via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the somascope CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "icons":
		return runIcons()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("somascope - 3D anatomy explorer backend")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  somascope serve [addr]  Start HTTP API server (default: 127.0.0.1:8080)")
	fmt.Println("  somascope icons [dir]   Generate the PWA icon set")
	fmt.Println("  somascope --version     Show version information")
	fmt.Println("  somascope --help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CEREBRAS_API_KEY    Chat-completion key for /api/medical-analysis")
	fmt.Println("  ELEVENLABS_API_KEY  Music-composition key for /api/audio-generation")
	fmt.Println("  DEBUG               Optional: Enable debug logging")
	fmt.Println()
	fmt.Println("Routes without a key return an error payload; the viewer keeps working.")
}
