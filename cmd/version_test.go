package cmd

import (
	"strings"
	"testing"
)

// ============================================================================
// runVersion Tests
// ============================================================================

func TestRunVersion(t *testing.T) {
	// Save original values
	originalAppVersion := AppVersion
	originalBuildTime := BuildTime
	originalGitCommit := GitCommit

	// Restore after test
	defer func() {
		AppVersion = originalAppVersion
		BuildTime = originalBuildTime
		GitCommit = originalGitCommit
	}()

	tests := []struct {
		name            string
		cerebrasKey     string
		elevenLabsKey   string
		appVersion      string
		buildTime       string
		gitCommit       string
		expectedStrings []string
	}{
		{
			name:          "release build with both keys",
			cerebrasKey:   "csk-test-1234567890",
			elevenLabsKey: "el-test-1234567890",
			appVersion:    "1.0.0",
			buildTime:     "2026-01-01T00:00:00Z",
			gitCommit:     "abc123",
			expectedStrings: []string{
				"somascope 1.0.0",
				"Build Time: 2026-01-01T00:00:00Z",
				"Git Commit: abc123",
				"Providers:",
				"CEREBRAS_API_KEY: configured",
				"ELEVENLABS_API_KEY: configured",
			},
		},
		{
			name:          "development build without keys",
			cerebrasKey:   "",
			elevenLabsKey: "",
			appVersion:    "development",
			buildTime:     "unknown",
			gitCommit:     "unknown",
			expectedStrings: []string{
				"somascope development",
				"Build Time: unknown",
				"Git Commit: unknown",
				"CEREBRAS_API_KEY: not set",
				"ELEVENLABS_API_KEY: not set",
			},
		},
		{
			name:          "one key configured",
			cerebrasKey:   "csk-only",
			elevenLabsKey: "",
			appVersion:    "2.0.0-beta",
			buildTime:     "2026-06-01",
			gitCommit:     "def456",
			expectedStrings: []string{
				"somascope 2.0.0-beta",
				"CEREBRAS_API_KEY: configured",
				"ELEVENLABS_API_KEY: not set",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CEREBRAS_API_KEY", tt.cerebrasKey)
			t.Setenv("ELEVENLABS_API_KEY", tt.elevenLabsKey)

			AppVersion = tt.appVersion
			BuildTime = tt.buildTime
			GitCommit = tt.gitCommit

			output := captureStdout(t, runVersion)

			for _, expected := range tt.expectedStrings {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q\nGot: %s", expected, output)
				}
			}

			// Raw key material must never appear in the output.
			if tt.cerebrasKey != "" && strings.Contains(output, tt.cerebrasKey) {
				t.Error("output leaked CEREBRAS_API_KEY material")
			}
			if tt.elevenLabsKey != "" && strings.Contains(output, tt.elevenLabsKey) {
				t.Error("output leaked ELEVENLABS_API_KEY material")
			}
		})
	}
}
