package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"statsweep/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report [path]",
		Short: "Render a saved analysis or cleanup report",
		Long: `Report pretty-prints a report written by a previous run. Cleanup
reports are recognized by their cleanup_ filename prefix; everything
else is treated as an analysis report. With no argument the most
recent analysis report in the report directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				path, err = latestAnalysisReport(cfg.Paths.ReportDir)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if strings.HasPrefix(filepath.Base(path), "cleanup_") {
				rep, err := report.LoadCleanup(path)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, rep)
				}
				fmt.Fprintln(out, renderCleanupSummary(rep, path))
				return nil
			}

			rep, err := report.LoadAnalysis(path)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, rep)
			}
			fmt.Fprintln(out, renderAnalysisSummary(rep, path))
			if len(rep.Recommendations) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderRecommendations(rep.Recommendations, 10))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}
