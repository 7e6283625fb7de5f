package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"statsweep/internal/logging"
)

// ErrRootUnreadable reports that the archive root itself could not be
// listed. Individual missing period directories are tolerated; a
// missing root is not.
var ErrRootUnreadable = errors.New("data directory unreadable")

// Loader reads per-date JSON files from the archive tree.
type Loader struct {
	root    string
	periods []string
	workers int
	logger  *slog.Logger
}

// NewLoader builds a loader for root covering the given period
// subdirectories, in order. workers bounds concurrent file reads.
func NewLoader(root string, periods []string, workers int, logger *slog.Logger) *Loader {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{
		root:    root,
		periods: periods,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "dataset"),
	}
}

// Load reads every parseable archive file and assembles the corpus.
// Malformed files are logged and skipped; a period directory that does
// not exist contributes nothing. Only an unreadable root is fatal.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, l.root, err)
	}

	var (
		mu      sync.Mutex
		records []*DateRecord
		skipped int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)

	for _, period := range l.periods {
		dir := filepath.Join(l.root, period)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				l.logger.Debug("period directory missing", slog.String("period", period))
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			period := period
			name := entry.Name()
			path := filepath.Join(dir, name)
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				record, err := l.loadFile(path, period, name)
				if err != nil {
					l.logger.Warn("skipping malformed file",
						slog.String("file", path),
						logging.Error(err))
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				records = append(records, record)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	corpus := newCorpus(records)
	l.logger.Info("archive loaded",
		slog.Int("dates", len(corpus.Dates)),
		slog.Int("games", corpus.TotalGames),
		slog.Int("player_entries", corpus.TotalEntries),
		slog.Int("skipped_files", skipped))
	return corpus, nil
}

func (l *Loader) loadFile(path, period, name string) (*DateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record, err := ParseRecord(data)
	if err != nil {
		return nil, err
	}
	record.Period = period
	record.File = name
	record.Path = path
	if record.Date == "" {
		record.Date = dateFromFilename(name, period)
	}
	return record, nil
}

// ParseRecord decodes one archive file. Two shapes are accepted: the
// wrapped object {"date": ..., "games": [...], "players": [...]} and
// the legacy bare array of player entries.
func ParseRecord(data []byte) (*DateRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}

	if trimmed[0] == '[' {
		var players []PlayerGameEntry
		if err := json.Unmarshal(trimmed, &players); err != nil {
			return nil, fmt.Errorf("parse legacy player array: %w", err)
		}
		return &DateRecord{Legacy: true, Players: players}, nil
	}

	var wrapped struct {
		Date    string            `json:"date"`
		Games   []Game            `json:"games"`
		Players []PlayerGameEntry `json:"players"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &DateRecord{
		Date:    wrapped.Date,
		Games:   wrapped.Games,
		Players: wrapped.Players,
	}, nil
}

// dateFromFilename recovers the date from names like
// "july_2025-07-04.json" when the payload omits it.
func dateFromFilename(name, period string) string {
	base := strings.TrimSuffix(name, ".json")
	base = strings.TrimPrefix(base, period+"_")
	return base
}

// sortRecords orders records by date, then path for the rare ties.
func sortRecords(records []*DateRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Path < records[j].Path
	})
}
