// Package scene renders poster frames of the anatomy mark for clients that
// cannot run the interactive canvas, such as link unfurlers and the loading
// shell. The renderer holds parsed vector state and is the engine the canvas
// guard protects.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/somascope/somascope/internal/brand"
	"github.com/somascope/somascope/internal/canvas"
)

// Poster dimensions when the caller passes none. Sized for link preview
// cards.
const (
	DefaultWidth  = 1200
	DefaultHeight = 630
)

// ErrRendererDisposed is returned by Poster after Dispose.
var ErrRendererDisposed = errors.New("scene renderer is disposed")

// Renderer rasterizes the brand mark onto poster frames. The parsed icon is
// not safe for concurrent draws, so all rendering is serialized internally.
type Renderer struct {
	mu       sync.Mutex
	icon     *oksvg.SvgIcon
	disposed bool
}

var _ canvas.Engine = (*Renderer)(nil)

// NewRenderer parses the brand mark. It fails only when the embedded vector
// source is invalid, which a unit test catches before release.
func NewRenderer() (*Renderer, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(brand.Mark))
	if err != nil {
		return nil, fmt.Errorf("parsing brand mark: %w", err)
	}
	return &Renderer{icon: icon}, nil
}

// Poster renders the mark centered on the brand gradient and returns the
// frame as PNG bytes. Non-positive dimensions fall back to the defaults.
func (r *Renderer) Poster(width, height int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil, ErrRendererDisposed
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillVerticalGradient(img, brand.Slate, brand.Ink)

	// The mark takes 60% of the shorter edge, centered.
	edge := min(width, height) * 3 / 5
	r.icon.SetTarget(float64(width-edge)/2, float64(height-edge)/2, float64(edge), float64(edge))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	r.icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding poster: %w", err)
	}
	return buf.Bytes(), nil
}

// Dispose releases the parsed vector state. Safe to call repeatedly.
func (r *Renderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icon = nil
	r.disposed = true
	return nil
}

// Placeholder renders the flat frame served while no engine is live. It
// needs no renderer state and never fails on valid dimensions.
func Placeholder(width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(brand.Ink), image.Point{}, draw.Src)

	// One accent rule across the lower third so the frame reads as a
	// deliberate loading state rather than a broken image.
	rule := image.Rect(0, height*2/3, width, height*2/3+4)
	draw.Draw(img, rule, image.NewUniform(brand.Accent), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func fillVerticalGradient(img *image.RGBA, top, bottom color.NRGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		row := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+y+1)
		draw.Draw(img, row, image.NewUniform(blend(top, bottom, t)), image.Point{}, draw.Src)
	}
}

func blend(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}
