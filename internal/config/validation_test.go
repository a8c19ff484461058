package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{CORSOrigins: []string{"http://localhost:5173"}},
		Cerebras: CerebrasConfig{
			BaseURL:        "https://api.cerebras.ai",
			Model:          "llama-3.3-70b",
			Temperature:    0.7,
			MaxTokens:      1024,
			TimeoutSeconds: 60,
		},
		ElevenLabs: ElevenLabsConfig{
			BaseURL:        "https://api.elevenlabs.io",
			TimeoutSeconds: 120,
		},
		Assets: AssetsConfig{IconsDir: "web/icons"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name: "missing API keys still pass",
			mutate: func(c *Config) {
				c.Cerebras.APIKey = ""
				c.ElevenLabs.APIKey = ""
			},
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Cerebras.Model = "" },
			wantErr: ErrInvalidModel,
		},
		{
			name:    "temperature too high",
			mutate:  func(c *Config) { c.Cerebras.Temperature = 2.5 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "temperature negative",
			mutate:  func(c *Config) { c.Cerebras.Temperature = -0.1 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "max tokens zero",
			mutate:  func(c *Config) { c.Cerebras.MaxTokens = 0 },
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "max tokens beyond bound",
			mutate:  func(c *Config) { c.Cerebras.MaxTokens = 40000 },
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "cerebras base URL without scheme",
			mutate:  func(c *Config) { c.Cerebras.BaseURL = "api.cerebras.ai" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "elevenlabs base URL with bad scheme",
			mutate:  func(c *Config) { c.ElevenLabs.BaseURL = "ftp://api.elevenlabs.io" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "cerebras timeout zero",
			mutate:  func(c *Config) { c.Cerebras.TimeoutSeconds = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "elevenlabs timeout negative",
			mutate:  func(c *Config) { c.ElevenLabs.TimeoutSeconds = -5 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "empty icons dir",
			mutate:  func(c *Config) { c.Assets.IconsDir = "" },
			wantErr: ErrInvalidIconsDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	if !errors.Is(cfg.Validate(), ErrConfigNil) {
		t.Fatal("expected ErrConfigNil for nil config")
	}
}
