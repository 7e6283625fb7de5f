package recommend

import (
	"time"

	"statsweep/internal/config"
)

// Policy carries the confidence assigned to each recommendation source
// and the known-bad date window. The values are tuning knobs, not
// measured precision; they exist to rank and gate, nothing more.
type Policy struct {
	CrossDate    float64
	SameDate     float64
	PlayerWindow float64

	// HighConfidence is the cutoff above which a recommendation joins
	// the subset that drives the decision engine.
	HighConfidence float64

	WindowStart time.Time
	WindowEnd   time.Time
}

// PolicyFromConfig lifts the configured scoring knobs into a Policy.
// The window dates are already validated by config.Load, so a loaded
// config always yields a usable window here.
func PolicyFromConfig(cfg *config.Config) Policy {
	start, end := cfg.CorruptionWindow()
	return Policy{
		CrossDate:      cfg.Policy.CrossDateConfidence,
		SameDate:       cfg.Policy.SameDateConfidence,
		PlayerWindow:   cfg.Policy.PlayerWindowConfidence,
		HighConfidence: cfg.Policy.HighConfidence,
		WindowStart:    start,
		WindowEnd:      end,
	}
}

// InWindow reports whether a YYYY-MM-DD date lies in the corruption
// window, inclusive on both ends. Unparsable dates are outside.
func (p Policy) InWindow(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return !t.Before(p.WindowStart) && !t.After(p.WindowEnd)
}
