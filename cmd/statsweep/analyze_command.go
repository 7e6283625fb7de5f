package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"statsweep/internal/decision"
	"statsweep/internal/history"
	"statsweep/internal/notifications"
	"statsweep/internal/recommend"
	"statsweep/internal/report"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan the archive for duplicate games and corrupted player statistics",
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

			rep := &report.AnalysisReport{
				RunID:           newRunID(),
				GeneratedAt:     time.Now().UTC(),
				Analysis:        res.Analysis,
				Recommendations: res.Recommendations,
				HighConfidence:  res.HighConfidence,
			}
			if len(res.HighConfidence) > 0 {
				d := decide(cfg, res)
				rep.Decision = &d
			}

			reportPath, err := report.WriteAnalysis(cfg.Paths.ReportDir, rep)
			if err != nil {
				return err
			}

			recordRun(cmd, cfg, &history.Run{
				RunID:           rep.RunID,
				Mode:            history.ModeAnalyze,
				StartedAt:       started,
				FinishedAt:      time.Now().UTC(),
				Decision:        decisionAction(rep.Decision),
				DecisionReason:  decisionReason(rep.Decision),
				TotalIssues:     res.Analysis.Summary.TotalIssues,
				Recommendations: len(res.Recommendations),
				HighConfidence:  len(res.HighConfidence),
				ReportPath:      reportPath,
			}, logger)

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifyAnalysisComplete(cmd.Context(), res.Analysis.Summary.TotalIssues, len(res.Recommendations)); err != nil {
				logger.Warn("analysis notification failed", "error", err)
			}

			if jsonOutput {
				return writeJSON(cmd, rep)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderAnalysisSummary(rep, reportPath))
			if len(res.Recommendations) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderRecommendations(res.Recommendations, 10))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full analysis report as JSON")
	return cmd
}

func renderAnalysisSummary(rep *report.AnalysisReport, reportPath string) string {
	meta := rep.Analysis.Metadata
	summary := rep.Analysis.Summary

	rows := [][]string{
		{"Dates scanned", strconv.Itoa(meta.TotalDates)},
		{"Games", strconv.Itoa(meta.TotalGames)},
		{"Player entries", strconv.Itoa(meta.TotalEntries)},
		{"Total issues", strconv.Itoa(summary.TotalIssues)},
		{"Cross-date duplicates", strconv.Itoa(len(rep.Analysis.CrossDate))},
		{"Player issues", strconv.Itoa(len(rep.Analysis.Players))},
		{"Same-date groups", strconv.Itoa(len(rep.Analysis.SameDate))},
		{"Recommendations", strconv.Itoa(len(rep.Recommendations))},
		{"High confidence", strconv.Itoa(len(rep.HighConfidence))},
	}
	if rep.Decision != nil {
		rows = append(rows,
			[]string{"Decision", displayLabel(string(rep.Decision.Action))},
			[]string{"Window correlation", formatPercent(rep.Decision.Snapshot.WindowCorrelation)},
			[]string{"Impact", formatPercent(rep.Decision.Snapshot.ImpactFraction)},
			[]string{"Avg confidence", formatConfidence(rep.Decision.Snapshot.AvgConfidence)},
		)
	}
	rows = append(rows, []string{"Report", reportPath})

	return renderTable([]string{"Field", "Value"}, rows, 1)
}

func renderRecommendations(recs []recommend.Recommendation, limit int) string {
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}
	rows := make([][]string, 0, limit)
	for _, rec := range recs[:limit] {
		rows = append(rows, []string{
			displayLabel(rec.Action),
			rec.Date,
			rec.GameID,
			rec.PlayerKey,
			string(rec.Severity),
			formatConfidence(rec.Confidence),
			truncate(rec.Reason, 48),
		})
	}
	rendered := renderTable(
		[]string{"Action", "Date", "Game ID", "Player", "Severity", "Confidence", "Reason"},
		rows, 5,
	)
	if limit < len(recs) {
		rendered += fmt.Sprintf("\n(%d more not shown)", len(recs)-limit)
	}
	return rendered
}

func decisionAction(d *decision.Result) string {
	if d == nil {
		return ""
	}
	return string(d.Action)
}

func decisionReason(d *decision.Result) string {
	if d == nil {
		return ""
	}
	return d.Reason
}
