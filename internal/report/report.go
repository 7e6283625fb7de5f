package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"statsweep/internal/decision"
	"statsweep/internal/detect"
	"statsweep/internal/recommend"
)

// AnalysisReport is the full durable record of one analysis run.
type AnalysisReport struct {
	RunID           string                     `json:"runId"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
	Analysis        *detect.Analysis           `json:"analysis"`
	Recommendations []recommend.Recommendation `json:"removalRecommendations"`
	HighConfidence  []recommend.Recommendation `json:"highConfidenceRemovals"`
	Decision        *decision.Result           `json:"decision,omitempty"`
}

// WriteAnalysis persists the report under dir as
// analysis_<runID>.json and returns the path.
func WriteAnalysis(dir string, r *AnalysisReport) (string, error) {
	return writeJSON(dir, fmt.Sprintf("analysis_%s.json", r.RunID), r)
}

// LoadAnalysis reads a previously written analysis report.
func LoadAnalysis(path string) (*AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis report: %w", err)
	}
	var r AnalysisReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse analysis report %s: %w", path, err)
	}
	return &r, nil
}

// CleanupReport records what an apply or dry run actually did.
type CleanupReport struct {
	RunID          string                     `json:"runId"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
	DryRun         bool                       `json:"dryRun"`
	Decision       *decision.Result           `json:"decision,omitempty"`
	Applied        []recommend.Recommendation `json:"applied"`
	BackupPath     string                     `json:"backupPath,omitempty"`
	GamesRemoved   int                        `json:"gamesRemoved"`
	PlayersRemoved int                        `json:"playersRemoved"`
	FilesChanged   int                        `json:"filesChanged"`
	FileErrors     map[string]string          `json:"fileErrors,omitempty"`
	Verification   *Verification              `json:"verification,omitempty"`
}

// Verification summarizes the post-mutation re-analysis.
type Verification struct {
	IssuesBefore int      `json:"issuesBefore"`
	IssuesAfter  int      `json:"issuesAfter"`
	Mismatches   []string `json:"mismatches,omitempty"`
}

// WriteCleanup persists the cleanup report under dir as
// cleanup_<runID>.json and returns the path.
func WriteCleanup(dir string, r *CleanupReport) (string, error) {
	return writeJSON(dir, fmt.Sprintf("cleanup_%s.json", r.RunID), r)
}

// LoadCleanup reads a previously written cleanup report.
func LoadCleanup(path string) (*CleanupReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cleanup report: %w", err)
	}
	var r CleanupReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse cleanup report %s: %w", path, err)
	}
	return &r, nil
}

// Batch is a reviewed set of recommendations approved for execution.
type Batch struct {
	RunID           string                     `json:"runId"`
	CreatedAt       time.Time                  `json:"createdAt"`
	ApprovedBy      string                     `json:"approvedBy,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// WriteBatch persists an approved batch to an explicit path.
func WriteBatch(path string, b *Batch) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create batch dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

// LoadBatch reads an approved batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(b.Recommendations) == 0 {
		return nil, fmt.Errorf("batch %s contains no recommendations", path)
	}
	return &b, nil
}

func writeJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
