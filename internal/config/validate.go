package config

import (
	"fmt"
	"net/url"
	"strings"

	"retake/internal/services"
)

var validAIFormats = map[string]struct{}{
	"openai": {},
	"ollama": {},
	"gemini": {},
}

// Validate checks the configuration for problems that would make a pipeline
// run fail after work had already started. Everything reported here carries
// the configuration-error marker so callers can surface it before processing.
func (c *Config) Validate() error {
	var problems []string

	if _, ok := validAIFormats[c.AI.Format]; !ok {
		problems = append(problems, fmt.Sprintf("ai.format must be one of openai, ollama, gemini (got %q)", c.AI.Format))
	}

	switch c.AI.Format {
	case "openai", "gemini":
		if c.AI.APIKey == "" {
			problems = append(problems, fmt.Sprintf("ai.api_key is required for the %s backend (set it in config or %s)", c.AI.Format, apiKeyEnv))
		}
		// openai and ollama fall back to well-known endpoints when
		// ai.base_url is empty; gemini has no such default.
		if c.AI.Format == "gemini" && c.AI.BaseURL == "" {
			problems = append(problems, "ai.base_url is required for the gemini backend")
		}
	case "ollama":
		// Ollama defaults to the local daemon and needs no credential.
	}

	if c.AI.BaseURL != "" {
		if parsed, err := url.Parse(c.AI.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			problems = append(problems, fmt.Sprintf("ai.base_url %q is not an absolute URL", c.AI.BaseURL))
		}
	}
	if c.AI.Model == "" {
		problems = append(problems, "ai.model is required")
	}

	if c.Engine.WhisperBinary == "" {
		problems = append(problems, "engine.whisper_binary is required")
	}
	if c.Engine.ModelPath == "" {
		problems = append(problems, "engine.model_path is required")
	}

	if c.Quality.ConfidenceThreshold < 0 || c.Quality.ConfidenceThreshold > 1 {
		problems = append(problems, fmt.Sprintf("quality.confidence_threshold must be within [0,1] (got %g)", c.Quality.ConfidenceThreshold))
	}
	if c.Cues.MinSeconds <= 0 {
		problems = append(problems, "cues.min_seconds must be positive")
	}
	if c.Cues.MaxSeconds <= c.Cues.MinSeconds {
		problems = append(problems, fmt.Sprintf("cues.max_seconds (%g) must exceed cues.min_seconds (%g)", c.Cues.MaxSeconds, c.Cues.MinSeconds))
	}
	if c.Cues.MergeSilenceSeconds < 0 {
		problems = append(problems, "cues.merge_silence_seconds must not be negative")
	}
	if c.Output.CrossfadeMilliseconds < 0 {
		problems = append(problems, "output.crossfade_ms must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "config", "validate", strings.Join(problems, "; "), nil)
}
