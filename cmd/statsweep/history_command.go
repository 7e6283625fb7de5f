package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"statsweep/internal/config"
	"statsweep/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					truncate(run.RunID, 12),
					displayLabel(run.Mode),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					displayLabel(run.Decision),
					strconv.Itoa(run.TotalIssues),
					strconv.Itoa(run.HighConfidence),
					strconv.Itoa(run.GamesRemoved),
					strconv.Itoa(run.PlayersRemoved),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Mode", "Started", "Decision", "Issues", "High Conf", "Games", "Players"},
				rows, 4, 5, 6, 7,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, run)
		},
	}
}

// recordRun persists a run record, logging instead of failing the
// command when the history database is unavailable.
func recordRun(cmd *cobra.Command, cfg *config.Config, run *history.Run, logger *slog.Logger) {
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("open history store failed", "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(cmd.Context(), run); err != nil {
		logger.Warn("record run failed", "run_id", run.RunID, "mode", run.Mode, "error", err)
	}
}
