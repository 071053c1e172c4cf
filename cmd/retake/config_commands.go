package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"retake/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(cctx))
	cmd.AddCommand(newConfigTestCommand(cctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Set engine.model_path and your ai credentials, then run `retake config test`")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			apiKey := "(unset)"
			if cfg.AI.APIKey != "" {
				apiKey = "(set)"
			}
			rows := [][]string{
				{"config file", describeConfigPath(cctx)},
				{"engine.whisper_binary", cfg.Engine.WhisperBinary},
				{"engine.model_path", cfg.Engine.ModelPath},
				{"engine.language", cfg.Engine.Language},
				{"ai.format", cfg.AI.Format},
				{"ai.base_url", cfg.AI.BaseURL},
				{"ai.model", cfg.AI.Model},
				{"ai.api_key", apiKey},
				{"ai.workers", fmt.Sprintf("%d", cfg.AI.Workers)},
				{"quality.confidence_threshold", fmt.Sprintf("%.2f", cfg.Quality.ConfidenceThreshold)},
				{"cues.min_seconds", fmt.Sprintf("%.1f", cfg.Cues.MinSeconds)},
				{"cues.max_seconds", fmt.Sprintf("%.1f", cfg.Cues.MaxSeconds)},
				{"cues.merge_silence_seconds", fmt.Sprintf("%.1f", cfg.Cues.MergeSilenceSeconds)},
				{"output.crossfade_ms", fmt.Sprintf("%d", cfg.Output.CrossfadeMilliseconds)},
				{"output.secondary_transcription", yesNo(cfg.Output.SecondaryTranscription)},
				{"paths.runlog_path", cfg.Paths.RunLogPath},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func newConfigTestCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Validate configuration and probe the engine and AI backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := cctx.ensureConfig(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Configuration: ok")

			engine, err := cctx.buildEngine()
			if err != nil {
				return err
			}
			if err := engine.CheckAvailable(); err != nil {
				fmt.Fprintf(out, "Recognition engine: UNAVAILABLE (%v)\n", err)
			} else {
				fmt.Fprintln(out, "Recognition engine: ok")
			}

			client, err := cctx.buildAIClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			health := client.TestConnection(ctx)
			if health.Reachable {
				fmt.Fprintf(out, "AI backend (%s): ok, %s round trip\n", client.Dialect(), health.Latency.Round(time.Millisecond))
			} else {
				fmt.Fprintf(out, "AI backend (%s): UNREACHABLE (%s)\n", client.Dialect(), health.Detail)
			}
			return nil
		},
	}
}

func describeConfigPath(cctx *commandContext) string {
	if _, err := cctx.ensureConfig(); err != nil {
		return ""
	}
	if !cctx.configExists {
		return cctx.configPath + " (not found, using defaults)"
	}
	return cctx.configPath
}
