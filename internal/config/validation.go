package config

import (
	"fmt"
	"net/url"
)

// Validate checks configuration values and returns sentinel errors usable
// with errors.Is().
//
// Provider API keys are intentionally not checked here: their absence is a
// per-request condition owned by the proxy routes, not a startup failure.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.Cerebras.Model == "" {
		return fmt.Errorf("%w: cerebras.model cannot be empty", ErrInvalidModel)
	}

	// Temperature range follows the chat-completion API contract.
	if c.Cerebras.Temperature < 0.0 || c.Cerebras.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f",
			ErrInvalidTemperature, c.Cerebras.Temperature)
	}

	if c.Cerebras.MaxTokens < 1 || c.Cerebras.MaxTokens > 32768 {
		return fmt.Errorf("%w: must be between 1 and 32,768, got %d",
			ErrInvalidMaxTokens, c.Cerebras.MaxTokens)
	}

	if err := validateBaseURL("cerebras.base_url", c.Cerebras.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("elevenlabs.base_url", c.ElevenLabs.BaseURL); err != nil {
		return err
	}

	if c.Cerebras.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: cerebras.timeout_seconds must be positive, got %d",
			ErrInvalidTimeout, c.Cerebras.TimeoutSeconds)
	}
	if c.ElevenLabs.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: elevenlabs.timeout_seconds must be positive, got %d",
			ErrInvalidTimeout, c.ElevenLabs.TimeoutSeconds)
	}

	if c.Assets.IconsDir == "" {
		return fmt.Errorf("%w: assets.icons_dir cannot be empty", ErrInvalidIconsDir)
	}

	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBaseURL, key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must use http or https, got %q", ErrInvalidBaseURL, key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s has no host", ErrInvalidBaseURL, key)
	}
	return nil
}
