package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// apiKeyEnv is consulted when the config file carries no API key. A .env file
// in the working directory is honored first so keys stay out of the TOML.
const apiKeyEnv = "RETAKE_API_KEY"

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Paths.RunLogPath, err = expandPath(strings.TrimSpace(c.Paths.RunLogPath)); err != nil {
		return err
	}
	if c.Engine.ModelPath != "" {
		if c.Engine.ModelPath, err = expandPath(strings.TrimSpace(c.Engine.ModelPath)); err != nil {
			return err
		}
	}

	c.Engine.WhisperBinary = strings.TrimSpace(c.Engine.WhisperBinary)
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	c.Engine.FFprobeBinary = strings.TrimSpace(c.Engine.FFprobeBinary)
	c.Engine.Language = strings.ToLower(strings.TrimSpace(c.Engine.Language))

	c.AI.Format = strings.ToLower(strings.TrimSpace(c.AI.Format))
	c.AI.BaseURL = strings.TrimSpace(c.AI.BaseURL)
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	c.AI.Model = strings.TrimSpace(c.AI.Model)
	c.AI.SystemPrompt = strings.TrimSpace(c.AI.SystemPrompt)
	if c.AI.APIKey == "" {
		c.AI.APIKey = apiKeyFromEnv()
	}

	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeout
	}
	if c.AI.RetryAttempts <= 0 {
		c.AI.RetryAttempts = defaultAIRetries
	}
	if c.AI.Workers <= 0 {
		c.AI.Workers = defaultAIWorkers
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func apiKeyFromEnv() string {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(apiKeyEnv))
}
