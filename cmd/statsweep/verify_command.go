package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"statsweep/internal/history"
	"statsweep/internal/report"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-run analysis and check the last cleanup actually removed its targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			started := time.Now().UTC()
			res, err := runPipeline(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var mismatches []string
			last, err := store.LastExecute(cmd.Context())
			switch {
			case errors.Is(err, history.ErrNotFound):
				fmt.Fprintln(cmd.OutOrStdout(), "No prior cleanup execution on record; reporting current state only.")
			case err != nil:
				return err
			default:
				mismatches, err = checkLastExecution(last, res)
				if err != nil {
					return err
				}
			}

			run := &history.Run{
				RunID:                newRunID(),
				Mode:                 history.ModeVerify,
				StartedAt:            started,
				FinishedAt:           time.Now().UTC(),
				TotalIssues:          res.Analysis.Summary.TotalIssues,
				Recommendations:      len(res.Recommendations),
				HighConfidence:       len(res.HighConfidence),
				VerificationMismatch: len(mismatches),
			}
			if err := store.Record(cmd.Context(), run); err != nil {
				logger.Warn("record verify run failed", "error", err)
			}

			rows := [][]string{
				{"Total issues", strconv.Itoa(res.Analysis.Summary.TotalIssues)},
				{"Recommendations", strconv.Itoa(len(res.Recommendations))},
				{"High confidence", strconv.Itoa(len(res.HighConfidence))},
			}
			if last != nil {
				rows = append(rows,
					[]string{"Last execute run", last.RunID},
					[]string{"Mismatches", strconv.Itoa(len(mismatches))},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, 1))

			if len(mismatches) > 0 {
				for _, id := range mismatches {
					fmt.Fprintf(cmd.OutOrStdout(), "still present: gameId %s\n", id)
				}
				return fmt.Errorf("%d removal target(s) from run %s still present", len(mismatches), last.RunID)
			}
			return nil
		},
	}
	return cmd
}

// checkLastExecution reloads the cleanup report from the last execute
// run and flags applied game removals whose targets still surface in
// the current high-confidence set.
func checkLastExecution(last *history.Run, res *pipelineResult) ([]string, error) {
	if last.ReportPath == "" {
		return nil, nil
	}
	rep, err := report.LoadCleanup(last.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("load cleanup report for run %s: %w", last.RunID, err)
	}

	current := make(map[string]bool, len(res.HighConfidence))
	for _, rec := range res.HighConfidence {
		if rec.GameID != "" {
			current[rec.GameID] = true
		}
	}

	var mismatches []string
	seen := make(map[string]bool)
	for _, rec := range rep.Applied {
		if rec.GameID == "" || seen[rec.GameID] {
			continue
		}
		seen[rec.GameID] = true
		if current[rec.GameID] {
			mismatches = append(mismatches, rec.GameID)
		}
	}
	return mismatches, nil
}
