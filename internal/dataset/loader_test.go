package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeArchiveFile(t *testing.T, root, period, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, period)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadWrappedAndLegacyShapes(t *testing.T) {
	root := t.TempDir()
	writeArchiveFile(t, root, "july", "july_2025-07-04.json", `{
		"date": "2025-07-04",
		"games": [
			{"gameId": 401696251, "homeTeam": "NYY", "awayTeam": "BOS", "venue": "Yankee Stadium", "dateTime": "2025-07-04T17:05:00Z"}
		],
		"players": [
			{"name": "A. Judge", "team": "NYY", "gameId": "401696251", "playerType": "hitter", "AB": 4, "H": "2", "R": 1, "RBI": 1, "HR": 0}
		]
	}`)
	writeArchiveFile(t, root, "august", "august_2025-08-01.json", `[
		{"name": "A. Judge", "team": "NYY", "gameId": 401700001, "AB": 3, "H": 1, "R": 0, "RBI": 0, "HR": 0}
	]`)

	loader := NewLoader(root, []string{"july", "august"}, 4, nil)
	corpus, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(corpus.Dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", corpus.Dates)
	}
	if corpus.Dates[0] != "2025-07-04" || corpus.Dates[1] != "2025-08-01" {
		t.Fatalf("dates out of order: %v", corpus.Dates)
	}

	july := corpus.Record("2025-07-04")
	if july == nil || len(july.Games) != 1 {
		t.Fatalf("july record missing games: %+v", july)
	}
	if got := july.Games[0].ID(); got != "401696251" {
		t.Fatalf("numeric gameId not normalized, got %q", got)
	}
	if july.Players[0].Hits != 2 {
		t.Fatalf("string stat not parsed, got %d", july.Players[0].Hits)
	}

	legacy := corpus.Record("2025-08-01")
	if legacy == nil || !legacy.Legacy {
		t.Fatalf("legacy array not detected: %+v", legacy)
	}
	if len(legacy.Games) != 0 {
		t.Fatalf("legacy record should carry no games")
	}

	games := corpus.Players["A. Judge_NYY"]
	if len(games) != 2 {
		t.Fatalf("player index expected 2 entries, got %d", len(games))
	}
	if games[0].Date != "2025-07-04" || games[1].Date != "2025-08-01" {
		t.Fatalf("player index not in date order: %+v", games)
	}
}

func TestLoadSkipsMalformedFiles(t *testing.T) {
	root := t.TempDir()
	writeArchiveFile(t, root, "july", "july_2025-07-01.json", `{"date": "2025-07-01", "games": [], "players": []}`)
	writeArchiveFile(t, root, "july", "july_2025-07-02.json", `{not json`)

	loader := NewLoader(root, []string{"july"}, 2, nil)
	corpus, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(corpus.Dates) != 1 || corpus.Dates[0] != "2025-07-01" {
		t.Fatalf("malformed file not skipped cleanly: %v", corpus.Dates)
	}
}

func TestLoadMissingPeriodIsEmpty(t *testing.T) {
	root := t.TempDir()
	loader := NewLoader(root, []string{"march", "april"}, 2, nil)
	corpus, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(corpus.Dates) != 0 {
		t.Fatalf("expected empty corpus, got %v", corpus.Dates)
	}
}

func TestLoadUnreadableRootFails(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing"), []string{"july"}, 2, nil)
	if _, err := loader.Load(context.Background()); !errors.Is(err, ErrRootUnreadable) {
		t.Fatalf("expected ErrRootUnreadable, got %v", err)
	}
}

func TestDateFromFilename(t *testing.T) {
	if got := dateFromFilename("july_2025-07-04.json", "july"); got != "2025-07-04" {
		t.Fatalf("got %q", got)
	}
	if got := dateFromFilename("2025-07-04.json", "july"); got != "2025-07-04" {
		t.Fatalf("got %q", got)
	}
}
