package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"statsweep/internal/config"
	"statsweep/internal/detect"
	"statsweep/internal/downstream"
	"statsweep/internal/logging"
	"statsweep/internal/notifications"
	"statsweep/internal/recommend"
	"statsweep/internal/report"
)

// ErrLocked reports that another statsweep run holds the cleanup lock.
var ErrLocked = errors.New("another cleanup run is in progress")

// ErrBackupFailed reports that the pre-mutation backup could not be
// completed; nothing was changed.
var ErrBackupFailed = errors.New("backup failed")

// ErrSafetyExceeded reports that the recommendation set breaks a
// safety cap.
var ErrSafetyExceeded = errors.New("safety thresholds exceeded")

// VerifyFunc re-runs the detection pipeline against the mutated
// archive and returns the fresh analysis and its high-confidence
// recommendation subset.
type VerifyFunc func(ctx context.Context) (*detect.Analysis, []recommend.Recommendation, error)

// Options control one execution.
type Options struct {
	DryRun    bool
	Force     bool
	RunID     string
	BackupDir string
}

// Result is what one execution did.
type Result struct {
	RunID              string               `json:"runId"`
	DryRun             bool                 `json:"dryRun"`
	BackupPath         string               `json:"backupPath,omitempty"`
	Files              []FileResult         `json:"files"`
	GamesRemoved       int                  `json:"gamesRemoved"`
	PlayersRemoved     int                  `json:"playersRemoved"`
	FilesChanged       int                  `json:"filesChanged"`
	FileErrors         int                  `json:"fileErrors"`
	Verification       *report.Verification `json:"verification,omitempty"`
	DownstreamFailures int                  `json:"downstreamFailures"`
}

// Executor applies recommendation sets to the archive.
type Executor struct {
	cfg       *config.Config
	logger    *slog.Logger
	notifier  notifications.Service
	refresher downstream.Refresher
	verify    VerifyFunc
}

// NewExecutor wires an executor. notifier and refresher may be nil;
// verify may be nil to skip post-mutation verification.
func NewExecutor(cfg *config.Config, logger *slog.Logger, notifier notifications.Service, refresher downstream.Refresher, verify VerifyFunc) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "cleanup"),
		notifier:  notifier,
		refresher: refresher,
		verify:    verify,
	}
}

// Execute applies the recommendation set. Order is fixed: safety
// check, lock, backup, mutate, verify, downstream refresh. A dry run
// stops at the mutation step without writing. The backup must fully
// succeed before any file changes; a backup failure aborts with no
// mutation.
func (e *Executor) Execute(ctx context.Context, recs []recommend.Recommendation, issuesBefore int, opts Options) (*Result, error) {
	if len(recs) == 0 {
		return nil, errors.New("no recommendations to execute")
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	result := &Result{RunID: opts.RunID, DryRun: opts.DryRun}

	if violations := SafetyCheck(recs, e.cfg.Safety); len(violations) > 0 && !opts.Force {
		for _, v := range violations {
			e.logger.Error("safety check failed", logging.Error(v))
		}
		return nil, fmt.Errorf("%w: %v", ErrSafetyExceeded, errors.Join(violations...))
	}

	lock, err := e.acquireLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	// Last point at which cancellation is honored. Once the backup
	// starts the run goes to completion; the backup is the recovery
	// path, not a mid-flight rollback.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byFile := groupByFile(recs)
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if !opts.DryRun {
		backupDir := opts.BackupDir
		if backupDir == "" {
			backupDir = filepath.Join(e.cfg.Paths.BackupDir, "run-"+opts.RunID)
		}
		if err := backupFiles(paths, e.cfg.Paths.DataDir, backupDir); err != nil {
			e.notifyError(ctx, err, "backup")
			return nil, fmt.Errorf("%w, nothing mutated: %v", ErrBackupFailed, err)
		}
		result.BackupPath = backupDir
		e.logger.Info("backup complete",
			slog.String("backup_dir", backupDir),
			slog.Int("files", len(paths)))
		if e.notifier != nil {
			_ = e.notifier.NotifyBackupCreated(ctx, backupDir)
		}
	}

	for _, path := range paths {
		fileResult := applyToFile(path, byFile[path], opts.DryRun)
		result.Files = append(result.Files, fileResult)
		result.GamesRemoved += fileResult.GamesRemoved
		result.PlayersRemoved += fileResult.PlayersRemoved
		if fileResult.Err != "" {
			result.FileErrors++
			e.logger.Warn("file mutation failed",
				slog.String("file", path),
				slog.String("error", fileResult.Err))
			continue
		}
		if fileResult.Changed {
			result.FilesChanged++
		}
	}

	e.logger.Info("mutation pass complete",
		slog.Bool("dry_run", opts.DryRun),
		slog.Int("games_removed", result.GamesRemoved),
		slog.Int("players_removed", result.PlayersRemoved),
		slog.Int("files_changed", result.FilesChanged),
		slog.Int("file_errors", result.FileErrors))

	if !opts.DryRun && e.verify != nil {
		result.Verification = e.runVerification(ctx, recs, issuesBefore)
	}

	if !opts.DryRun && e.refresher != nil && result.FilesChanged > 0 {
		if failures := e.refresher.Refresh(ctx); len(failures) > 0 {
			result.DownstreamFailures = len(failures)
		}
	}

	if e.notifier != nil {
		_ = e.notifier.NotifyCleanupCompleted(ctx, result.GamesRemoved, result.PlayersRemoved, opts.DryRun)
	}
	return result, nil
}

// runVerification re-runs detection and checks whether any targeted
// identifier still shows up in the fresh high-confidence set. A
// mismatch is reported, never fatal.
func (e *Executor) runVerification(ctx context.Context, applied []recommend.Recommendation, issuesBefore int) *report.Verification {
	analysis, high, err := e.verify(ctx)
	if err != nil {
		e.logger.Warn("verification pass failed", logging.Error(err))
		return &report.Verification{
			IssuesBefore: issuesBefore,
			IssuesAfter:  -1,
			Mismatches:   []string{fmt.Sprintf("verification did not run: %v", err)},
		}
	}

	verification := &report.Verification{
		IssuesBefore: issuesBefore,
		IssuesAfter:  analysis.Summary.TotalIssues,
	}

	targeted := make(map[string]bool)
	for _, rec := range applied {
		if rec.GameID != "" {
			targeted[rec.GameID] = true
		}
	}
	seen := make(map[string]bool)
	for _, rec := range high {
		if targeted[rec.GameID] && !seen[rec.GameID] {
			seen[rec.GameID] = true
			verification.Mismatches = append(verification.Mismatches,
				fmt.Sprintf("gameId %s still recommended for removal after cleanup", rec.GameID))
		}
	}

	if len(verification.Mismatches) > 0 {
		e.logger.Warn("verification mismatches",
			slog.Int("count", len(verification.Mismatches)))
	} else {
		e.logger.Info("verification clean",
			slog.Int("issues_before", verification.IssuesBefore),
			slog.Int("issues_after", verification.IssuesAfter))
	}
	return verification
}

func (e *Executor) acquireLock() (*flock.Flock, error) {
	lockDir := e.cfg.Paths.LogDir
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(filepath.Join(lockDir, "statsweep.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cleanup lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

func (e *Executor) notifyError(ctx context.Context, err error, context string) {
	if e.notifier != nil {
		_ = e.notifier.NotifyError(ctx, err, context)
	}
}

func groupByFile(recs []recommend.Recommendation) map[string][]recommend.Recommendation {
	byFile := make(map[string][]recommend.Recommendation)
	for _, rec := range recs {
		if rec.File == "" {
			continue
		}
		byFile[rec.File] = append(byFile[rec.File], rec)
	}
	return byFile
}
