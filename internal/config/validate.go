package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateSafety(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePolicy() error {
	confidences := map[string]float64{
		"policy.cross_date_confidence":    c.Policy.CrossDateConfidence,
		"policy.same_date_confidence":     c.Policy.SameDateConfidence,
		"policy.player_window_confidence": c.Policy.PlayerWindowConfidence,
		"policy.high_confidence":          c.Policy.HighConfidence,
	}
	for name, value := range confidences {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}

	start, err := time.Parse("2006-01-02", c.Policy.CorruptionWindowStart)
	if err != nil {
		return fmt.Errorf("policy.corruption_window_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Policy.CorruptionWindowEnd)
	if err != nil {
		return fmt.Errorf("policy.corruption_window_end: %w", err)
	}
	if end.Before(start) {
		return errors.New("policy.corruption_window_end must not precede policy.corruption_window_start")
	}
	return nil
}

func (c *Config) validateThresholds() error {
	for name, tier := range map[string]Tier{
		"thresholds.auto":   c.Thresholds.Auto,
		"thresholds.manual": c.Thresholds.Manual,
	} {
		if tier.MaxRemovals <= 0 {
			return fmt.Errorf("%s.max_removals must be positive", name)
		}
		if tier.MinWindowCorrelation < 0 || tier.MinWindowCorrelation > 1 {
			return fmt.Errorf("%s.min_window_correlation must be between 0 and 1", name)
		}
		if tier.MaxImpact <= 0 || tier.MaxImpact > 1 {
			return fmt.Errorf("%s.max_impact must be a fraction in (0, 1]", name)
		}
		if tier.MinAvgConfidence < 0 || tier.MinAvgConfidence > 1 {
			return fmt.Errorf("%s.min_avg_confidence must be between 0 and 1", name)
		}
	}

	// The ladder only makes sense when the auto tier is the stricter one.
	if c.Thresholds.Auto.MaxRemovals > c.Thresholds.Manual.MaxRemovals {
		return errors.New("thresholds.auto.max_removals must not exceed thresholds.manual.max_removals")
	}
	if c.Thresholds.Auto.MaxImpact > c.Thresholds.Manual.MaxImpact {
		return errors.New("thresholds.auto.max_impact must not exceed thresholds.manual.max_impact")
	}
	return nil
}

func (c *Config) validateSafety() error {
	for name, value := range map[string]int{
		"safety.max_files":    c.Safety.MaxFiles,
		"safety.max_players":  c.Safety.MaxPlayers,
		"safety.max_removals": c.Safety.MaxRemovals,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Safety.BackupRetentionDays < 0 {
		return errors.New("safety.backup_retention_days must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// CorruptionWindow returns the configured closed date interval as parsed
// times. Validate guarantees both bounds parse.
func (c *Config) CorruptionWindow() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", c.Policy.CorruptionWindowStart)
	end, _ := time.Parse("2006-01-02", c.Policy.CorruptionWindowEnd)
	return start, end
}
