package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newCleanCommand(cctx *commandContext) *cobra.Command {
	var audioOut string
	var subtitleOut string
	var noSecondary bool

	cmd := &cobra.Command{
		Use:   "clean <recording>",
		Short: "Remove low-quality segments from a recording and write the subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if noSecondary {
				cfg.Output.SecondaryTranscription = false
			}

			source := args[0]
			if audioOut == "" {
				audioOut = defaultAudioOut(source)
			}
			if subtitleOut == "" {
				subtitleOut = defaultSubtitleOut(source)
			}

			ctx, stop, err := cctx.signalContext(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			p, store, err := cctx.buildPipeline()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := p.Run(ctx, source, audioOut, subtitleOut)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cleaned audio: %s\n", result.AudioPath)
			fmt.Fprintf(out, "Subtitle file: %s\n", result.SubtitlePath)
			fmt.Fprintf(out, "Removed %d of %d segments, %.1f%% of the run time (%.1fs -> %.1fs), %d cues\n",
				result.SegmentsDropped, result.SegmentsTotal,
				result.ReductionPercent(),
				result.SourceSeconds, result.CleanedSeconds,
				result.Cues)
			return nil
		},
	}

	cmd.Flags().StringVar(&audioOut, "audio-out", "", "Cleaned audio output path (default: <name>_cleaned<ext> next to the source)")
	cmd.Flags().StringVar(&subtitleOut, "subtitle-out", "", "Subtitle output path (default: <name>.hrt next to the source)")
	cmd.Flags().BoolVar(&noSecondary, "no-secondary", false, "Skip the second transcription pass over the cleaned audio")

	return cmd
}

func defaultAudioOut(source string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(source, ext)
	if ext == "" {
		ext = ".wav"
	}
	return base + "_cleaned" + ext
}

func defaultSubtitleOut(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".hrt"
}
