package history

import (
	"database/sql"
	"fmt"
	"time"
)

const runColumns = "id, run_id, mode, started_at, finished_at, decision, decision_reason, total_issues, recommendations, high_confidence, games_removed, players_removed, files_changed, file_errors, verification_mismatches, backup_path, report_path"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		decision    sql.NullString
		reason      sql.NullString
		backupPath  sql.NullString
		reportPath  sql.NullString
	)

	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.Mode,
		&startedRaw,
		&finishedRaw,
		&decision,
		&reason,
		&run.TotalIssues,
		&run.Recommendations,
		&run.HighConfidence,
		&run.GamesRemoved,
		&run.PlayersRemoved,
		&run.FilesChanged,
		&run.FileErrors,
		&run.VerificationMismatch,
		&backupPath,
		&reportPath,
	); err != nil {
		return nil, err
	}

	started, err := time.Parse(time.RFC3339Nano, startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse started_at %q: %w", startedRaw, err)
	}
	run.StartedAt = started
	if finishedRaw.Valid && finishedRaw.String != "" {
		finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finishedRaw.String, err)
		}
		run.FinishedAt = finished
	}
	run.Decision = decision.String
	run.DecisionReason = reason.String
	run.BackupPath = backupPath.String
	run.ReportPath = reportPath.String
	return &run, nil
}
