// Package icons renders the installable-app icon set from the embedded
// brand mark. It runs at build time via the icons subcommand, never while
// serving traffic.
package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ico "github.com/Kodeworks/golang-image-ico"
	"github.com/gofrs/flock"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/somascope/somascope/internal/brand"
)

// Sizes are the square icon dimensions manifests expect, ascending. The
// favicon is assembled from the first entry.
var Sizes = []int{72, 96, 128, 144, 152, 192, 384, 512}

const (
	faviconName = "favicon.ico"
	lockName    = ".iconbuild.lock"
)

// ErrBuildLocked means another build holds the output directory's lock.
// Concurrent builds would interleave partially written files.
var ErrBuildLocked = errors.New("another icon build holds the lock")

// Generator writes the icon set into one output directory.
type Generator struct {
	outDir string
	logger *slog.Logger
}

// New creates a Generator targeting outDir. A nil logger falls back to
// slog.Default().
func New(outDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{outDir: outDir, logger: logger.With("component", "icons")}
}

// Generate rasterizes the mark at every size in Sizes, writes each as
// icon-NxN.png, and assembles favicon.ico from the smallest render. Output
// is deterministic: the same binary always produces the same bytes.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("creating icons dir: %w", err)
	}

	lock := flock.New(filepath.Join(g.outDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring icon build lock: %w", err)
	}
	if !locked {
		return ErrBuildLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			g.logger.Warn("failed to release icon build lock", "error", err)
		}
	}()

	icon, err := oksvg.ReadIconStream(strings.NewReader(brand.Mark))
	if err != nil {
		return fmt.Errorf("parsing brand mark: %w", err)
	}

	var smallest image.Image
	for _, size := range Sizes {
		if err := ctx.Err(); err != nil {
			return err
		}
		img := renderMark(icon, size)
		name := fmt.Sprintf("icon-%dx%d.png", size, size)
		if err := writePNG(filepath.Join(g.outDir, name), img); err != nil {
			return err
		}
		g.logger.Debug("icon written", "name", name)
		if smallest == nil {
			smallest = img
		}
	}

	if err := writeFavicon(filepath.Join(g.outDir, faviconName), smallest); err != nil {
		return err
	}

	g.logger.Info("icons generated", "dir", g.outDir, "count", len(Sizes))
	return nil
}

func renderMark(icon *oksvg.SvgIcon, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img
}

// writePNG encodes fully in memory first so a failed encode never leaves a
// truncated file on disk.
func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeFavicon(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding favicon: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing favicon: %w", err)
	}
	return nil
}
