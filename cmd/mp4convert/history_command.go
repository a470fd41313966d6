package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mp4convert/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently converted files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Job history is disabled")
				return nil
			}
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", errUsage)
			}

			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var records []history.Record
			if runID != "" {
				records, err = store.ByRun(cmd.Context(), runID)
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show every job of one run")
	return cmd
}

func renderHistoryTable(records []history.Record) string {
	title := cases.Title(language.English)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		threads := "-"
		if rec.Threads > 0 {
			threads = strconv.Itoa(rec.Threads)
		}
		rows = append(rows, []string{
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			title.String(string(rec.Outcome)),
			rec.Source,
			rec.Destination,
			threads,
			formatDuration(rec.Duration),
			strconv.Itoa(rec.ExitCode),
		})
	}
	return renderTable(
		[]string{"Started", "Outcome", "Source", "Destination", "Threads", "Duration", "Exit"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}
