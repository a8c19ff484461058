// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.somascope/config.yaml, or ./config.yaml)
//  3. Default values
//
// Categories:
//   - Server: CORS origins for the HTTP API
//   - Cerebras: chat-completion provider (condition analysis)
//   - ElevenLabs: music-composition provider (ambient audio)
//   - Assets: generated icon output/serve directory
//   - Telemetry: OTLP trace export
//
// Provider API keys are deliberately NOT validated at load time: a missing key
// surfaces as a 500 on the route that owns it, never as a startup failure.
// Sensitive fields are masked in MarshalJSON/String so the config can be logged.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModel indicates the chat model name is empty.
	ErrInvalidModel = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens bound is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidBaseURL indicates a provider base URL is malformed.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidTimeout indicates a provider timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidIconsDir indicates the icons directory is empty.
	ErrInvalidIconsDir = errors.New("invalid icons directory")
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON(); when
// adding a new secret, update the owning section's MarshalJSON.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server"`
	Cerebras   CerebrasConfig   `mapstructure:"cerebras" json:"cerebras"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs" json:"elevenlabs"`
	Assets     AssetsConfig     `mapstructure:"assets" json:"assets"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" json:"telemetry"`
}

// ServerConfig holds HTTP API settings. The listen address comes from the
// serve command line, not from here.
type ServerConfig struct {
	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
}

// CerebrasConfig holds the chat-completion provider settings used by the
// medical-analysis route. Generation parameters are fixed per deployment;
// callers cannot influence them.
type CerebrasConfig struct {
	// APIKey is read from CEREBRAS_API_KEY. SENSITIVE: masked in MarshalJSON.
	APIKey string `mapstructure:"api_key" json:"api_key"`
	// BaseURL of the chat-completion API.
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// Model identifier sent with every completion request.
	Model string `mapstructure:"model" json:"model"`
	// Temperature bound for generation (0.0–2.0).
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	// MaxTokens bound for generated output.
	MaxTokens int `mapstructure:"max_tokens" json:"max_tokens"`
	// TimeoutSeconds for a single upstream call. There is no retry:
	// one call, one timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the per-call timeout as a duration.
func (c CerebrasConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ElevenLabsConfig holds the music-composition provider settings used by the
// audio-generation route.
type ElevenLabsConfig struct {
	// APIKey is read from ELEVENLABS_API_KEY. SENSITIVE: masked in MarshalJSON.
	// An empty key short-circuits the audio route before any network call.
	APIKey string `mapstructure:"api_key" json:"api_key"`
	// BaseURL of the music-composition API.
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// TimeoutSeconds for a single upstream call. Music synthesis is slow;
	// keep this generous.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the per-call timeout as a duration.
func (c ElevenLabsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AssetsConfig holds static asset locations.
type AssetsConfig struct {
	// IconsDir is where the icons command writes its output and where the
	// server serves /icons/ from, when present.
	IconsDir string `mapstructure:"icons_dir" json:"icons_dir"`
}

// TelemetryConfig holds OTLP trace export settings.
type TelemetryConfig struct {
	// Enabled turns trace export on. Off by default.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// AgentHost is the local OTLP HTTP endpoint (default: localhost:4318).
	AgentHost string `mapstructure:"agent_host" json:"agent_host"`
	// Environment is the deployment environment tag.
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName identifies this service in traces.
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".somascope")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Vite dev server origin for local UI development.
	viper.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	viper.SetDefault("cerebras.base_url", "https://api.cerebras.ai")
	viper.SetDefault("cerebras.model", "llama-3.3-70b")
	viper.SetDefault("cerebras.temperature", 0.7)
	viper.SetDefault("cerebras.max_tokens", 1024)
	viper.SetDefault("cerebras.timeout_seconds", 60)

	viper.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")
	viper.SetDefault("elevenlabs.timeout_seconds", 120)

	viper.SetDefault("assets.icons_dir", "web/icons")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.agent_host", "localhost:4318")
	viper.SetDefault("telemetry.environment", "dev")
	viper.SetDefault("telemetry.service_name", "somascope")
}

// bindEnvVariables binds environment variables explicitly.
// The two provider keys keep their provider-mandated names; everything else
// is prefixed SOMASCOPE_.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime condition.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("cerebras.api_key", "CEREBRAS_API_KEY")
	mustBind("elevenlabs.api_key", "ELEVENLABS_API_KEY")

	mustBind("server.cors_origins", "SOMASCOPE_CORS_ORIGINS")
	mustBind("cerebras.base_url", "SOMASCOPE_CEREBRAS_BASE_URL")
	mustBind("cerebras.model", "SOMASCOPE_MODEL")
	mustBind("elevenlabs.base_url", "SOMASCOPE_ELEVENLABS_BASE_URL")
	mustBind("assets.icons_dir", "SOMASCOPE_ICONS_DIR")
	mustBind("telemetry.enabled", "SOMASCOPE_TELEMETRY_ENABLED")
	mustBind("telemetry.agent_host", "SOMASCOPE_AGENT_HOST")
	mustBind("telemetry.environment", "SOMASCOPE_ENVIRONMENT")
}

// maskedValue is the placeholder for masked sensitive data. Full-width blocks
// avoid accidental substring matches against real secret material.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully masked;
// longer ones keep the first and last two characters for debug utility. This
// defends against accidental logging, not compromised logs; rotate keys if
// logs leak.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON masks the API key.
func (c CerebrasConfig) MarshalJSON() ([]byte, error) {
	type alias CerebrasConfig
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal cerebras config: %w", err)
	}
	return data, nil
}

// MarshalJSON masks the API key.
func (c ElevenLabsConfig) MarshalJSON() ([]byte, error) {
	type alias ElevenLabsConfig
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal elevenlabs config: %w", err)
	}
	return data, nil
}

// String implements Stringer so printing a Config never leaks secrets.
func (c Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
