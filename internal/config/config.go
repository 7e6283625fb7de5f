package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	BackupDir string `toml:"backup_dir"`
	ReportDir string `toml:"report_dir"`
	LogDir    string `toml:"log_dir"`
}

// Dataset describes the on-disk layout of the per-date archive.
type Dataset struct {
	// Periods are the ordered sub-directories of DataDir scanned by the
	// loader (typically month names). A missing period directory is not an
	// error.
	Periods     []string `toml:"periods"`
	LoadWorkers int      `toml:"load_workers"`
}

// Policy contains the scoring confidences attached to each recommendation
// source plus the cutoff defining the high-confidence subset.
type Policy struct {
	CrossDateConfidence    float64 `toml:"cross_date_confidence"`
	SameDateConfidence     float64 `toml:"same_date_confidence"`
	PlayerWindowConfidence float64 `toml:"player_window_confidence"`
	HighConfidence         float64 `toml:"high_confidence"`

	// CorruptionWindowStart/End bound the closed date interval known to
	// contain a disproportionate share of true duplicates (YYYY-MM-DD).
	CorruptionWindowStart string `toml:"corruption_window_start"`
	CorruptionWindowEnd   string `toml:"corruption_window_end"`
}

// Tier is one row of the decision ladder.
type Tier struct {
	MaxRemovals          int     `toml:"max_removals"`
	MinWindowCorrelation float64 `toml:"min_window_correlation"`
	MaxImpact            float64 `toml:"max_impact"`
	MinAvgConfidence     float64 `toml:"min_avg_confidence"`
}

// Thresholds contains the two ordered decision tiers. Auto is evaluated
// first; Manual second; anything beyond Manual blocks.
type Thresholds struct {
	Auto   Tier `toml:"auto"`
	Manual Tier `toml:"manual"`
}

// Safety contains hard caps applied before any mutation.
type Safety struct {
	MaxFiles            int `toml:"max_files"`
	MaxPlayers          int `toml:"max_players"`
	MaxRemovals         int `toml:"max_removals"`
	BackupRetentionDays int `toml:"backup_retention_days"`
}

// Downstream configures best-effort aggregate regeneration commands run
// after a successful apply.
type Downstream struct {
	Enabled        bool     `toml:"enabled"`
	Commands       []string `toml:"commands"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Cleanup        bool   `toml:"cleanup"`
	Review         bool   `toml:"review"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for statsweep.
//
// Configuration sections by subsystem:
//   - Paths: archive, backup, report, and log directories
//   - Dataset: period layout and loader parallelism
//   - Policy: recommendation confidences and the corruption window
//   - Thresholds: auto/manual decision tiers
//   - Safety: hard caps on files/players/removals per run
//   - Downstream: post-cleanup regeneration commands
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Dataset       Dataset       `toml:"dataset"`
	Policy        Policy        `toml:"policy"`
	Thresholds    Thresholds    `toml:"thresholds"`
	Safety        Safety        `toml:"safety"`
	Downstream    Downstream    `toml:"downstream"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/statsweep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("statsweep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories statsweep writes to. DataDir is
// deliberately excluded: the archive must already exist and an absent archive
// is a loader-level error, not something to paper over here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.BackupDir, c.Paths.ReportDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
