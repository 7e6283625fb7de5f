package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"statsweep/internal/config"
	"statsweep/internal/fileutil"
	"statsweep/internal/recommend"
)

const sampleRecord = `{
  "date": "2025-07-04",
  "games": [
    {"gameId": 401500100, "homeTeam": "NYY", "awayTeam": "BOS", "venue": "Yankee Stadium", "extra": "kept"},
    {"gameId": 401500101, "homeTeam": "NYY", "awayTeam": "BOS", "venue": "Yankee Stadium"}
  ],
  "players": [
    {"name": "A. Judge", "team": "NYY", "gameId": "401500100", "playerType": "hitter", "AB": 4, "H": 2, "R": 1, "RBI": 1, "HR": 0},
    {"name": "A. Judge", "team": "NYY", "gameId": "401500101", "playerType": "hitter", "AB": 3, "H": 1, "R": 0, "RBI": 0, "HR": 0}
  ]
}`

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	return &cfg
}

func TestApplyToFileRemovesGameAndPlayer(t *testing.T) {
	path := writeSample(t, t.TempDir(), "july_2025-07-04.json", sampleRecord)
	removals := []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101"},
		{Action: recommend.ActionRemovePlayerGame, File: path, GameID: "401500101", PlayerKey: "A. Judge_NYY"},
	}

	result := applyToFile(path, removals, false)
	if result.Err != "" {
		t.Fatalf("apply error: %s", result.Err)
	}
	if result.GamesRemoved != 1 || result.PlayersRemoved != 1 {
		t.Fatalf("removed %d games, %d players", result.GamesRemoved, result.PlayersRemoved)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	var record struct {
		Date    string           `json:"date"`
		Games   []map[string]any `json:"games"`
		Players []map[string]any `json:"players"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("parse mutated file: %v", err)
	}
	if record.Date != "2025-07-04" {
		t.Fatal("date field lost")
	}
	if len(record.Games) != 1 || len(record.Players) != 1 {
		t.Fatalf("kept %d games, %d players", len(record.Games), len(record.Players))
	}
	// Unknown fields on surviving entries must be preserved.
	if record.Games[0]["extra"] != "kept" {
		t.Fatalf("unknown field dropped: %+v", record.Games[0])
	}
}

func TestApplyToFileGameRemovalCascadesToPlayers(t *testing.T) {
	path := writeSample(t, t.TempDir(), "july_2025-07-04.json", sampleRecord)

	result := applyToFile(path, []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101"},
	}, false)
	if result.Err != "" {
		t.Fatalf("apply error: %s", result.Err)
	}
	if result.GamesRemoved != 1 || result.PlayersRemoved != 1 {
		t.Fatalf("removed %d games, %d players", result.GamesRemoved, result.PlayersRemoved)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	var record struct {
		Players []map[string]any `json:"players"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("parse mutated file: %v", err)
	}
	if len(record.Players) != 1 || record.Players[0]["gameId"] != "401500100" {
		t.Fatalf("stat lines for removed game survived: %+v", record.Players)
	}
}

func TestApplyToFileLegacyArray(t *testing.T) {
	legacy := `[
  {"name": "A. Judge", "team": "NYY", "gameId": 401500100, "AB": 4, "H": 2},
  {"name": "B. Other", "team": "BOS", "gameId": 401500100, "AB": 3, "H": 1}
]`
	path := writeSample(t, t.TempDir(), "august_2025-08-01.json", legacy)
	removals := []recommend.Recommendation{
		{Action: recommend.ActionRemovePlayerGame, File: path, GameID: "401500100", PlayerKey: "A. Judge_NYY"},
	}

	result := applyToFile(path, removals, false)
	if result.PlayersRemoved != 1 {
		t.Fatalf("players removed = %d", result.PlayersRemoved)
	}

	data, _ := os.ReadFile(path)
	var players []map[string]any
	if err := json.Unmarshal(data, &players); err != nil {
		t.Fatalf("mutated legacy file no longer an array: %v", err)
	}
	if len(players) != 1 || players[0]["name"] != "B. Other" {
		t.Fatalf("wrong survivor: %+v", players)
	}
}

func TestApplyToFileDryRunWritesNothing(t *testing.T) {
	path := writeSample(t, t.TempDir(), "july_2025-07-04.json", sampleRecord)
	before, err := fileutil.Checksum(path)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}

	result := applyToFile(path, []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101"},
	}, true)
	if result.GamesRemoved != 1 || !result.Changed {
		t.Fatalf("dry run did not count removal: %+v", result)
	}

	after, err := fileutil.Checksum(path)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if before != after {
		t.Fatal("dry run modified the file")
	}
}

func TestSafetyCheckCaps(t *testing.T) {
	safety := config.Safety{MaxFiles: 2, MaxPlayers: 2, MaxRemovals: 3}

	var recs []recommend.Recommendation
	for i := 0; i < 4; i++ {
		recs = append(recs, recommend.Recommendation{
			File:      filepath.Join("data", "file"+string(rune('a'+i))+".json"),
			PlayerKey: "player" + string(rune('a'+i)),
		})
	}
	violations := SafetyCheck(recs, safety)
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", violations)
	}

	small := recs[:1]
	if violations := SafetyCheck(small, safety); len(violations) != 0 {
		t.Fatalf("in-bounds set flagged: %v", violations)
	}
}

func TestExecuteBackupFailureLeavesFilesUntouched(t *testing.T) {
	cfg := testConfig(t)
	path := writeSample(t, cfg.Paths.DataDir, "july/july_2025-07-04.json", sampleRecord)
	before, _ := fileutil.Checksum(path)

	// Force the backup to fail by making the backup root an existing
	// regular file.
	cfg.Paths.BackupDir = writeSample(t, t.TempDir(), "not-a-dir", "x")

	executor := NewExecutor(cfg, nil, nil, nil, nil)
	_, err := executor.Execute(context.Background(), []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101", Confidence: 0.9},
	}, 1, Options{})
	if !errors.Is(err, ErrBackupFailed) {
		t.Fatalf("expected ErrBackupFailed, got %v", err)
	}

	after, _ := fileutil.Checksum(path)
	if before != after {
		t.Fatal("file mutated despite backup failure")
	}
}

func TestExecuteAppliesAndBacksUp(t *testing.T) {
	cfg := testConfig(t)
	path := writeSample(t, cfg.Paths.DataDir, "july/july_2025-07-04.json", sampleRecord)
	before, _ := fileutil.Checksum(path)

	executor := NewExecutor(cfg, nil, nil, nil, nil)
	result, err := executor.Execute(context.Background(), []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101", Confidence: 0.9},
	}, 1, Options{RunID: "test-run"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.GamesRemoved != 1 || result.FilesChanged != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.BackupPath == "" {
		t.Fatal("no backup path recorded")
	}

	backupFile := filepath.Join(result.BackupPath, "july", "july_2025-07-04.json")
	backupSum, err := fileutil.Checksum(backupFile)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if backupSum != before {
		t.Fatal("backup does not match pre-mutation content")
	}

	after, _ := fileutil.Checksum(path)
	if after == before {
		t.Fatal("source file unchanged after execute")
	}
}

func TestExecuteSafetyBlock(t *testing.T) {
	cfg := testConfig(t)
	cfg.Safety.MaxRemovals = 1
	path := writeSample(t, cfg.Paths.DataDir, "july/july_2025-07-04.json", sampleRecord)

	recs := []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500100"},
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101"},
	}
	executor := NewExecutor(cfg, nil, nil, nil, nil)
	if _, err := executor.Execute(context.Background(), recs, 1, Options{}); !errors.Is(err, ErrSafetyExceeded) {
		t.Fatalf("expected ErrSafetyExceeded, got %v", err)
	}

	// Force overrides the caps.
	if _, err := executor.Execute(context.Background(), recs, 1, Options{Force: true}); err != nil {
		t.Fatalf("forced execute failed: %v", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	path := writeSample(t, cfg.Paths.DataDir, "july/july_2025-07-04.json", sampleRecord)
	original, _ := fileutil.Checksum(path)

	executor := NewExecutor(cfg, nil, nil, nil, nil)
	result, err := executor.Execute(context.Background(), []recommend.Recommendation{
		{Action: recommend.ActionRemoveGame, File: path, GameID: "401500101"},
	}, 1, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	restored, err := Restore(result.BackupPath, cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != 1 {
		t.Fatalf("restored %d files", restored)
	}

	after, _ := fileutil.Checksum(path)
	if after != original {
		t.Fatal("restore did not return file to original content")
	}
}

func TestRestoreEmptyBackupFails(t *testing.T) {
	if _, err := Restore(t.TempDir(), t.TempDir()); err == nil {
		t.Fatal("expected error for empty backup dir")
	}
}

func TestGroupByFile(t *testing.T) {
	recs := []recommend.Recommendation{
		{File: "/a.json", GameID: "1"},
		{File: "/a.json", GameID: "2"},
		{File: "/b.json", GameID: "3"},
		{GameID: "4"},
	}
	grouped := groupByFile(recs)
	if len(grouped) != 2 || len(grouped["/a.json"]) != 2 || len(grouped["/b.json"]) != 1 {
		t.Fatalf("grouped = %+v", grouped)
	}
	for path := range grouped {
		if !strings.HasSuffix(path, ".json") {
			t.Fatalf("unexpected key %q", path)
		}
	}
}
