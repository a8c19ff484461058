package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	health(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("health() status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	decodeBody(t, w, &body)

	if body["status"] != "ok" {
		t.Errorf("health() status = %q, want %q", body["status"], "ok")
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name  string
		chat  bool
		music bool
	}{
		{name: "both configured", chat: true, music: true},
		{name: "audio only", chat: false, music: true},
		{name: "none configured", chat: false, music: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/ready", nil)

			readiness(tt.chat, tt.music).ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("readiness() status = %d, want %d; missing keys degrade routes, not readiness", w.Code, http.StatusOK)
			}

			var body struct {
				Status    string          `json:"status"`
				Providers map[string]bool `json:"providers"`
			}
			decodeBody(t, w, &body)

			if body.Status != "ok" {
				t.Errorf("readiness() status = %q, want %q", body.Status, "ok")
			}
			if got := body.Providers["analysis"]; got != tt.chat {
				t.Errorf("providers.analysis = %v, want %v", got, tt.chat)
			}
			if got := body.Providers["audio"]; got != tt.music {
				t.Errorf("providers.audio = %v, want %v", got, tt.music)
			}
		})
	}
}
