// Package brand holds the somascope visual identity shared by the icon
// pipeline and the scene renderer: the vector mark and the palette it is
// drawn from. Keeping the mark as an embedded constant means icon builds
// and poster rendering are pure functions of the binary itself.
package brand

import "image/color"

// Mark is the somascope application mark: a figure inside a scan ring on a
// deep-field backdrop. It deliberately sticks to elements the rasterizer
// handles well (rect, circle, path, one linear gradient).
const Mark = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 512 512">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="0" y2="512" gradientUnits="userSpaceOnUse">
      <stop offset="0" stop-color="#16233B"/>
      <stop offset="1" stop-color="#0A111F"/>
    </linearGradient>
  </defs>
  <rect x="0" y="0" width="512" height="512" rx="104" fill="url(#bg)"/>
  <circle cx="256" cy="256" r="168" fill="none" stroke="#2DD4BF" stroke-width="18"/>
  <circle cx="256" cy="196" r="62" fill="#E6EDF3"/>
  <path d="M256 276 A94 94 0 0 1 350 370 L162 370 A94 94 0 0 1 256 276 Z" fill="#E6EDF3"/>
  <circle cx="256" cy="342" r="16" fill="#2DD4BF"/>
</svg>`

// Palette used by the scene renderer for backdrops and placeholders.
var (
	// Ink is the darkest backdrop tone.
	Ink = color.NRGBA{R: 0x0A, G: 0x11, B: 0x1F, A: 0xFF}
	// Slate is the lighter backdrop tone the gradient rises to.
	Slate = color.NRGBA{R: 0x16, G: 0x23, B: 0x3B, A: 0xFF}
	// Accent is the scan-ring teal.
	Accent = color.NRGBA{R: 0x2D, G: 0xD4, B: 0xBF, A: 0xFF}
)
