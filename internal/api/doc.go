// Package api provides the JSON REST API server for somascope.
//
// # Architecture
//
// The API server uses Go 1.22+ routing with a layered middleware stack:
//
//	Tracing → Recovery → RequestID → Logging → CORS → Routes
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux, ensuring they remain fast and dependency-free.
//
// # Endpoints
//
// Health probes (no middleware):
//   - GET /health — returns {"status":"ok"}
//   - GET /ready  — returns {"status":"ok"} plus per-provider key presence
//
// Provider proxies:
//   - POST /api/medical-analysis  — condition explanation via chat completion
//   - POST /api/audio-generation  — ambient track synthesis, raw MPEG bytes
//
// Scene and assets:
//   - GET /scene/poster.png — PNG frame of the anatomy scene
//   - GET /icons/           — generated PWA icons, when configured
//   - GET /                 — embedded viewer shell
//
// # Proxy Contract
//
// Both provider routes keep credentials and generation parameters
// server-side; the browser sends only a condition or a prompt. Analysis
// makes exactly one upstream call and falls back to a static message on any
// failure. Audio retries exactly once, and only when the provider rejects
// the prompt and supplies a replacement.
//
// # Error Handling
//
// Analysis errors use {"error": ..., "fallback": ...} with fixed strings so
// upstream failures never leak provider payloads. Audio errors use
// {"error": ..., "details": ...}. Everything else uses {"error": ...}.
//
// # Security
//
// The middleware stack enforces:
//   - CORS with explicit origin allowlist
//   - Security headers (HSTS, X-Frame-Options, nosniff)
//   - Request IDs on every response for log correlation
package api
