package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"viewlint/internal/diag"
	"viewlint/internal/report"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if historyRun != "" {
			run, err := store.GetRun(ctx, historyRun)
			if err != nil {
				return err
			}
			diags, err := store.LoadDiagnostics(ctx, run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "run %s at %s (%s)\n", run.ID, run.StartedAt.Format(time.RFC3339), run.Root)
			bag := diag.NewBag(0)
			for _, d := range diags {
				bag.Add(d)
			}
			report.Pretty(out, bag, report.PrettyOpts{})
			report.Summary(out, bag, run.FileCount)
			return nil
		}

		runs, err := store.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tFILES\tTYPES\tPROBLEMS\tSINCE\tROOT")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				r.ID[:min(8, len(r.ID))], r.StartedAt.Format(time.DateTime), r.FileCount, r.TypeCount, r.ErrorCount, r.Since, r.Root)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to list (0 for all)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the diagnostics of one run (ID or unique prefix)")
}
