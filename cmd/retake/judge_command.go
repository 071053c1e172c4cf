package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"retake/internal/evaluate"
	"retake/internal/transcript"
)

// judge runs recognition and evaluation without touching the audio, so
// verdicts can be reviewed before a destructive clean.
func newJudgeCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judge <recording>",
		Short: "Show per-segment keep/drop verdicts without modifying anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, stop, err := cctx.signalContext(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			engine, err := cctx.buildEngine()
			if err != nil {
				return err
			}
			evaluator, err := cctx.buildEvaluator()
			if err != nil {
				return err
			}

			workDir, err := os.MkdirTemp(cfg.Paths.StagingDir, "judge-")
			if err != nil {
				return fmt.Errorf("create staging directory: %w", err)
			}
			defer os.RemoveAll(workDir)

			extracted := filepath.Join(workDir, "source.wav")
			if err := engine.ExtractAudio(ctx, args[0], extracted); err != nil {
				return err
			}
			segments, err := engine.Transcribe(ctx, extracted, workDir)
			if err != nil {
				return err
			}
			conditioned := evaluate.ConditionSegments(segments, evaluate.ConditionOptions{
				MaxChars:   cfg.Quality.MaxSegmentChars,
				GapSeconds: cfg.Quality.GapThresholdSeconds,
			})

			verdicts, err := evaluator.Evaluate(ctx, conditioned)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(verdicts))
			for _, v := range verdicts {
				rows = append(rows, []string{
					fmt.Sprintf("%d", v.Index+1),
					fmt.Sprintf("%s - %s",
						transcript.FormatTimestamp(v.Segment.Start, '.'),
						transcript.FormatTimestamp(v.Segment.End, '.')),
					verdictWord(v.Keep),
					truncateText(v.Segment.Text, 40),
					v.Reason,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Span", "Verdict", "Text", "Reason"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d segments would be removed\n",
				len(evaluate.Dropped(verdicts)), len(verdicts))
			return nil
		},
	}
	return cmd
}

func verdictWord(keep bool) string {
	if keep {
		return "keep"
	}
	return "drop"
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
