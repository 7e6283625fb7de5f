package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"statsweep/internal/report"
)

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var (
		outPath    string
		approvedBy string
	)

	cmd := &cobra.Command{
		Use:   "approve [analysis-report]",
		Short: "Turn a reviewed analysis report into an executable batch file",
		Long: `Approve reads an analysis report, takes its high-confidence removal
set, and writes a batch file that "cleanup --batch" will execute
without re-running the decision ladder. With no argument the most
recent analysis report in the report directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var reportPath string
			if len(args) == 1 {
				reportPath = args[0]
			} else {
				reportPath, err = latestAnalysisReport(cfg.Paths.ReportDir)
				if err != nil {
					return err
				}
			}

			rep, err := report.LoadAnalysis(reportPath)
			if err != nil {
				return err
			}
			if len(rep.HighConfidence) == 0 {
				return fmt.Errorf("report %s has no high-confidence removals to approve", reportPath)
			}

			target := outPath
			if target == "" {
				target = filepath.Join(cfg.Paths.ReportDir, fmt.Sprintf("batch_%s.json", rep.RunID))
			}

			batch := &report.Batch{
				RunID:           rep.RunID,
				CreatedAt:       time.Now().UTC(),
				ApprovedBy:      approvedBy,
				Recommendations: rep.HighConfidence,
			}
			if err := report.WriteBatch(target, batch); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Approved %d removals from %s\n", len(batch.Recommendations), reportPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Execute with: statsweep cleanup --execute --batch %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Batch file destination")
	cmd.Flags().StringVar(&approvedBy, "by", "", "Name recorded as the approver")
	return cmd
}

// latestAnalysisReport picks the newest analysis_*.json in dir.
func latestAnalysisReport(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "analysis_*.json"))
	if err != nil {
		return "", fmt.Errorf("scan report directory: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no analysis reports in %s; run `statsweep analyze` first", dir)
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0], nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
