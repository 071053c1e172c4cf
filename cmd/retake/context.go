package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"retake/internal/config"
	"retake/internal/evaluate"
	"retake/internal/logging"
	"retake/internal/pipeline"
	"retake/internal/runlog"
	"retake/internal/services/ai"
	"retake/internal/services/whisper"
	"retake/internal/trim"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

// buildLogger honors the configured format; when stderr is not a terminal
// console output falls back to JSON so piped logs stay machine-readable.
func (c *commandContext) buildLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	format := cfg.Logging.Format
	if format == "console" && !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		format = "json"
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: format,
		Writer: os.Stderr,
	})
}

func (c *commandContext) buildEngine() (*whisper.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return whisper.New(whisper.Config{
		Binary:        cfg.Engine.WhisperBinary,
		ModelPath:     cfg.Engine.ModelPath,
		FFmpegBinary:  cfg.Engine.FFmpegBinary,
		FFprobeBinary: cfg.Engine.FFprobeBinary,
		Language:      cfg.Engine.Language,
	}), nil
}

func (c *commandContext) buildEvaluator() (*evaluate.Evaluator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.buildAIClient()
	if err != nil {
		return nil, err
	}
	return evaluate.New(client, evaluate.Options{
		Workers:             cfg.AI.Workers,
		RetryAttempts:       cfg.AI.RetryAttempts,
		Timeout:             time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		ConfidenceThreshold: cfg.Quality.ConfidenceThreshold,
		SystemPrompt:        cfg.AI.SystemPrompt,
	}), nil
}

func (c *commandContext) buildAIClient() (ai.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ai.New(ai.Config{
		Format:         cfg.AI.Format,
		BaseURL:        cfg.AI.BaseURL,
		APIKey:         cfg.AI.APIKey,
		Model:          cfg.AI.Model,
		TimeoutSeconds: cfg.AI.TimeoutSeconds,
	})
}

func (c *commandContext) buildPipeline() (*pipeline.Pipeline, *runlog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	engine, err := c.buildEngine()
	if err != nil {
		return nil, nil, err
	}
	evaluator, err := c.buildEvaluator()
	if err != nil {
		return nil, nil, err
	}
	trimmer := trim.New(trim.Config{
		FFmpegBinary:          cfg.Engine.FFmpegBinary,
		CrossfadeMilliseconds: cfg.Output.CrossfadeMilliseconds,
	})
	store, err := runlog.Open(cfg.Paths.RunLogPath)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(cfg, engine, evaluator, trimmer, store), store, nil
}

// signalContext derives a context cancelled by Ctrl-C or SIGTERM, with a
// logger attached for the stages to use.
func (c *commandContext) signalContext(parent context.Context) (context.Context, context.CancelFunc, error) {
	logger, err := c.buildLogger()
	if err != nil {
		return nil, nil, err
	}
	ctx := logging.WithContext(parent, logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, stop, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
