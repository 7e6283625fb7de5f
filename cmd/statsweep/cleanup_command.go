package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"statsweep/internal/cleanup"
	"statsweep/internal/decision"
	"statsweep/internal/downstream"
	"statsweep/internal/history"
	"statsweep/internal/notifications"
	"statsweep/internal/report"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun     bool
		execute    bool
		force      bool
		backupDir  string
		batchPath  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate data found by analysis",
		Long: `Cleanup runs the full analysis pipeline and applies the high-confidence
removal set. Without --execute it is a dry run: every step short of
mutation runs and the report shows what would change.

The decision tiers gate execution. An auto-sized batch executes
directly; a manual-sized batch requires an approved batch file
(see "statsweep approve") or --force; anything larger is blocked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun && execute {
				return fmt.Errorf("--dry-run and --execute are mutually exclusive")
			}
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

			recs := res.HighConfidence
			var batch *report.Batch
			if batchPath != "" {
				batch, err = report.LoadBatch(batchPath)
				if err != nil {
					return err
				}
				recs = batch.Recommendations
			}

			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No high-confidence removals found. Archive is clean.")
				return nil
			}

			notifier := notifications.NewService(cfg)

			var dec *decision.Result
			if batch == nil {
				d := decide(cfg, res)
				dec = &d
				if err := gateExecution(cmd, dec, execute, force, notifier, logger); err != nil {
					return err
				}
			}

			executor := cleanup.NewExecutor(cfg, logger, notifier,
				downstream.NewRefresher(cfg, logger),
				newVerifyFunc(cfg, logger))

			result, err := executor.Execute(cmd.Context(), recs, res.Analysis.Summary.TotalIssues, cleanup.Options{
				DryRun:    !execute,
				Force:     force,
				RunID:     newRunID(),
				BackupDir: backupDir,
			})
			if err != nil {
				// A safety-cap violation blocks like an oversized
				// decision: clean exit, distinct status, no data touched.
				if errors.Is(err, cleanup.ErrSafetyExceeded) {
					return fmt.Errorf("%w: %v", errBlocked, err)
				}
				return err
			}

			cleanupRep := &report.CleanupReport{
				RunID:          result.RunID,
				GeneratedAt:    time.Now().UTC(),
				DryRun:         result.DryRun,
				Decision:       dec,
				Applied:        recs,
				BackupPath:     result.BackupPath,
				GamesRemoved:   result.GamesRemoved,
				PlayersRemoved: result.PlayersRemoved,
				FilesChanged:   result.FilesChanged,
				Verification:   result.Verification,
			}
			if result.FileErrors > 0 {
				cleanupRep.FileErrors = fileErrorMap(result.Files)
			}
			reportPath, err := report.WriteCleanup(cfg.Paths.ReportDir, cleanupRep)
			if err != nil {
				return err
			}

			mode := history.ModeDryRun
			if execute {
				mode = history.ModeExecute
			}
			recordRun(cmd, cfg, &history.Run{
				RunID:                result.RunID,
				Mode:                 mode,
				StartedAt:            started,
				FinishedAt:           time.Now().UTC(),
				Decision:             decisionAction(dec),
				DecisionReason:       decisionReason(dec),
				TotalIssues:          res.Analysis.Summary.TotalIssues,
				Recommendations:      len(res.Recommendations),
				HighConfidence:       len(res.HighConfidence),
				GamesRemoved:         result.GamesRemoved,
				PlayersRemoved:       result.PlayersRemoved,
				FilesChanged:         result.FilesChanged,
				FileErrors:           result.FileErrors,
				VerificationMismatch: mismatchCount(result.Verification),
				BackupPath:           result.BackupPath,
				ReportPath:           reportPath,
			}, logger)

			if jsonOutput {
				return writeJSON(cmd, cleanupRep)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCleanupSummary(cleanupRep, reportPath))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Simulate only (the default when --execute is absent)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply removals instead of the default dry run")
	cmd.Flags().BoolVar(&force, "force", false, "Override decision and safety blocks")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Backup destination (defaults under the configured backup directory)")
	cmd.Flags().StringVar(&batchPath, "batch", "", "Approved batch file to execute instead of the live high-confidence set")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the cleanup report as JSON")
	return cmd
}

// gateExecution enforces the decision ladder ahead of any mutation. A
// dry run is always allowed to proceed so operators can inspect what a
// blocked batch would have done.
func gateExecution(cmd *cobra.Command, dec *decision.Result, execute, force bool, notifier notifications.Service, logger *slog.Logger) error {
	if !execute || force {
		return nil
	}
	switch dec.Action {
	case decision.ActionAutoExecute:
		return nil
	case decision.ActionManualReview:
		if err := notifier.NotifyManualReviewRequired(cmd.Context(), dec.Snapshot.HighConfidenceCount, ""); err != nil {
			logger.Warn("review notification failed", "error", err)
		}
		return fmt.Errorf("%w: %s; approve a batch with `statsweep approve` or pass --force", errBlocked, dec.Reason)
	default:
		if err := notifier.NotifyBlocked(cmd.Context(), dec.Reason); err != nil {
			logger.Warn("block notification failed", "error", err)
		}
		return fmt.Errorf("%w: %s", errBlocked, dec.Reason)
	}
}

func renderCleanupSummary(rep *report.CleanupReport, reportPath string) string {
	rows := [][]string{
		{"Run", rep.RunID},
		{"Dry run", yesNo(rep.DryRun)},
		{"Games removed", strconv.Itoa(rep.GamesRemoved)},
		{"Players removed", strconv.Itoa(rep.PlayersRemoved)},
		{"Files changed", strconv.Itoa(rep.FilesChanged)},
	}
	if rep.Decision != nil {
		rows = append(rows, []string{"Decision", displayLabel(string(rep.Decision.Action))})
	}
	if rep.BackupPath != "" {
		rows = append(rows, []string{"Backup", rep.BackupPath})
	}
	if rep.Verification != nil {
		rows = append(rows,
			[]string{"Issues before", strconv.Itoa(rep.Verification.IssuesBefore)},
			[]string{"Issues after", strconv.Itoa(rep.Verification.IssuesAfter)},
			[]string{"Mismatches", strconv.Itoa(len(rep.Verification.Mismatches))},
		)
	}
	if len(rep.FileErrors) > 0 {
		rows = append(rows, []string{"File errors", strconv.Itoa(len(rep.FileErrors))})
	}
	rows = append(rows, []string{"Report", reportPath})

	return renderTable([]string{"Field", "Value"}, rows, 1)
}

func fileErrorMap(files []cleanup.FileResult) map[string]string {
	errs := make(map[string]string)
	for _, f := range files {
		if f.Err != "" {
			errs[f.Path] = f.Err
		}
	}
	return errs
}

func mismatchCount(v *report.Verification) int {
	if v == nil {
		return 0
	}
	return len(v.Mismatches)
}
