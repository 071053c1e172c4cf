package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"retake/internal/runlog"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent cleaning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.Paths.RunLogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(run.SourcePath),
					run.Status,
					fmt.Sprintf("%.1f%%", run.ReductionPercent()),
					fmt.Sprintf("%d/%d", run.SegmentsDropped, run.SegmentsTotal),
					fmt.Sprintf("%d", run.Cues),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Started", "Source", "Status", "Removed", "Dropped", "Cues"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
