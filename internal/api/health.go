package api

import "net/http"

// health is a simple health check endpoint for Docker/Kubernetes probes.
// Returns 200 OK with {"status":"ok"}.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness reports which provider credentials are configured. Keys are a
// per-request concern, so the service is ready even without them; the
// payload tells operators at a glance which routes can currently succeed.
func readiness(chatConfigured, musicConfigured bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"providers": map[string]bool{
				"analysis": chatConfigured,
				"audio":    musicConfigured,
			},
		})
	})
}
