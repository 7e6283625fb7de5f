package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"statsweep/internal/detect"
	"statsweep/internal/recommend"
)

func TestWriteAndLoadAnalysis(t *testing.T) {
	dir := t.TempDir()
	r := &AnalysisReport{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Analysis: &detect.Analysis{
			Summary: detect.Summary{TotalIssues: 3},
		},
		Recommendations: []recommend.Recommendation{
			{Action: recommend.ActionRemoveGame, GameID: "401500100", Date: "2025-07-04", Confidence: 0.9},
		},
	}

	path, err := WriteAnalysis(dir, r)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasSuffix(path, "analysis_run-1.json") {
		t.Fatalf("path = %s", path)
	}

	got, err := LoadAnalysis(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.RunID != "run-1" || got.Analysis.Summary.TotalIssues != 3 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].GameID != "401500100" {
		t.Fatalf("recommendations = %+v", got.Recommendations)
	}
}

func TestBatchRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches", "approved.json")
	b := &Batch{
		RunID:      "run-2",
		CreatedAt:  time.Now().UTC(),
		ApprovedBy: "reviewer",
		Recommendations: []recommend.Recommendation{
			{Action: recommend.ActionRemovePlayerGame, PlayerKey: "A. Judge_NYY", GameID: "401500100", Date: "2025-07-04"},
		},
	}
	if err := WriteBatch(path, b); err != nil {
		t.Fatalf("write batch: %v", err)
	}

	got, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if got.RunID != "run-2" || got.Recommendations[0].PlayerKey != "A. Judge_NYY" {
		t.Fatalf("batch mismatch: %+v", got)
	}
}

func TestLoadBatchRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := WriteBatch(path, &Batch{RunID: "run-3"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadBatch(path); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
