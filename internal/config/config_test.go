package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"statsweep/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "statsweep", "data")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.BackupDir != filepath.Join(tempHome, ".local", "share", "statsweep", "backups") {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if len(cfg.Dataset.Periods) == 0 || cfg.Dataset.Periods[0] != "march" {
		t.Fatalf("unexpected periods: %v", cfg.Dataset.Periods)
	}
	if cfg.Policy.CrossDateConfidence != 0.90 {
		t.Fatalf("unexpected cross-date confidence: %v", cfg.Policy.CrossDateConfidence)
	}
	if cfg.Policy.HighConfidence != 0.90 {
		t.Fatalf("unexpected high-confidence cutoff: %v", cfg.Policy.HighConfidence)
	}
	if cfg.Thresholds.Auto.MaxRemovals != 20 || cfg.Thresholds.Manual.MaxRemovals != 50 {
		t.Fatalf("unexpected tier caps: auto=%d manual=%d",
			cfg.Thresholds.Auto.MaxRemovals, cfg.Thresholds.Manual.MaxRemovals)
	}
	if cfg.Safety.MaxRemovals != 1000 {
		t.Fatalf("unexpected safety cap: %d", cfg.Safety.MaxRemovals)
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.BackupDir, cfg.Paths.ReportDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.DataDir); !os.IsNotExist(err) {
		t.Fatalf("EnsureDirectories must not create the data dir: %v", err)
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statsweep.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "archive") + `"

[dataset]
periods = ["June", " JULY "]
load_workers = 2

[policy]
corruption_window_start = "2025-06-10"
corruption_window_end = "2025-06-20"
player_window_confidence = 0.75

[thresholds.auto]
max_removals = 10
min_window_correlation = 0.9
max_impact = 0.002
min_avg_confidence = 0.97
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if got := cfg.Dataset.Periods; len(got) != 2 || got[0] != "june" || got[1] != "july" {
		t.Fatalf("periods not normalized: %v", got)
	}
	if cfg.Dataset.LoadWorkers != 2 {
		t.Fatalf("unexpected load workers: %d", cfg.Dataset.LoadWorkers)
	}
	if cfg.Policy.PlayerWindowConfidence != 0.75 {
		t.Fatalf("unexpected player window confidence: %v", cfg.Policy.PlayerWindowConfidence)
	}
	start, end := cfg.CorruptionWindow()
	if start.Format("2006-01-02") != "2025-06-10" || end.Format("2006-01-02") != "2025-06-20" {
		t.Fatalf("unexpected corruption window: %v .. %v", start, end)
	}
	if cfg.Thresholds.Auto.MaxRemovals != 10 {
		t.Fatalf("unexpected auto cap: %d", cfg.Thresholds.Auto.MaxRemovals)
	}
	// Untouched sections keep defaults.
	if cfg.Thresholds.Manual.MaxRemovals != 50 {
		t.Fatalf("manual tier should keep defaults, got %d", cfg.Thresholds.Manual.MaxRemovals)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "confidence out of range",
			mutate: func(c *config.Config) { c.Policy.CrossDateConfidence = 1.5 },
			want:   "cross_date_confidence",
		},
		{
			name:   "window inverted",
			mutate: func(c *config.Config) { c.Policy.CorruptionWindowEnd = "2025-01-01" },
			want:   "corruption_window_end",
		},
		{
			name:   "auto cap above manual",
			mutate: func(c *config.Config) { c.Thresholds.Auto.MaxRemovals = 100 },
			want:   "max_removals",
		},
		{
			name:   "zero safety cap",
			mutate: func(c *config.Config) { c.Safety.MaxFiles = 0 },
			want:   "safety.max_files",
		},
		{
			name:   "bad log level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNtfyTopicFromEnvironment(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("STATSWEEP_NTFY_TOPIC", "https://ntfy.sh/statsweep-test")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/statsweep-test" {
		t.Fatalf("expected topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}
