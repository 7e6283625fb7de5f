package decision

import (
	"fmt"

	"statsweep/internal/config"
	"statsweep/internal/recommend"
)

// Actions the engine can return.
type Action string

const (
	ActionAutoExecute  Action = "auto_execute"
	ActionManualReview Action = "manual_review"
	ActionBlock        Action = "block"
)

// Snapshot aggregates the high-confidence recommendation subset. It is
// recomputed each run and carries everything the engine looks at.
type Snapshot struct {
	HighConfidenceCount int     `json:"highConfidenceCount"`
	WindowCorrelation   float64 `json:"dateRangeCorrelation"`
	ImpactFraction      float64 `json:"overallImpactFraction"`
	AvgConfidence       float64 `json:"avgConfidence"`
}

// BuildSnapshot derives the snapshot from the high-confidence subset.
// corpusSize estimates the total number of player game entries; an
// empty corpus reports zero impact rather than dividing by zero.
func BuildSnapshot(high []recommend.Recommendation, policy recommend.Policy, corpusSize int) Snapshot {
	s := Snapshot{HighConfidenceCount: len(high)}
	if len(high) == 0 {
		return s
	}

	inWindow := 0
	confidence := 0.0
	for _, rec := range high {
		if policy.InWindow(rec.Date) {
			inWindow++
		}
		confidence += rec.Confidence
	}
	s.WindowCorrelation = float64(inWindow) / float64(len(high))
	s.AvgConfidence = confidence / float64(len(high))
	if corpusSize > 0 {
		s.ImpactFraction = float64(len(high)) / float64(corpusSize)
	}
	return s
}

// Result is the engine's verdict plus the reasoning shown to the user.
type Result struct {
	Action          Action   `json:"action"`
	Reason          string   `json:"reason"`
	ConfidenceLevel string   `json:"confidenceLevel"`
	Snapshot        Snapshot `json:"metrics"`
}

// Engine evaluates a snapshot against its two ordered tiers.
type Engine struct {
	auto   config.Tier
	manual config.Tier
}

// NewEngine builds an engine from the configured tiers.
func NewEngine(thresholds config.Thresholds) *Engine {
	return &Engine{auto: thresholds.Auto, manual: thresholds.Manual}
}

// Decide checks the AUTO tier first, then MANUAL; a snapshot fitting
// neither blocks. Decide reads nothing but its argument.
func (e *Engine) Decide(s Snapshot) Result {
	result := Result{Snapshot: s}

	if fits(s, e.auto) {
		result.Action = ActionAutoExecute
		result.ConfidenceLevel = "high"
		result.Reason = fmt.Sprintf(
			"%d high-confidence removals fit the automatic tier (correlation %.0f%%, impact %.2f%%, avg confidence %.2f)",
			s.HighConfidenceCount, s.WindowCorrelation*100, s.ImpactFraction*100, s.AvgConfidence)
		return result
	}
	if fits(s, e.manual) {
		result.Action = ActionManualReview
		result.ConfidenceLevel = "medium"
		result.Reason = fmt.Sprintf(
			"%d high-confidence removals exceed the automatic tier but fit manual review (correlation %.0f%%, impact %.2f%%, avg confidence %.2f)",
			s.HighConfidenceCount, s.WindowCorrelation*100, s.ImpactFraction*100, s.AvgConfidence)
		return result
	}

	result.Action = ActionBlock
	result.ConfidenceLevel = "low"
	result.Reason = fmt.Sprintf(
		"%d removals with correlation %.0f%%, impact %.2f%%, avg confidence %.2f exceed every safe tier; nothing will be touched",
		s.HighConfidenceCount, s.WindowCorrelation*100, s.ImpactFraction*100, s.AvgConfidence)
	return result
}

func fits(s Snapshot, tier config.Tier) bool {
	return s.HighConfidenceCount <= tier.MaxRemovals &&
		s.WindowCorrelation >= tier.MinWindowCorrelation &&
		s.ImpactFraction <= tier.MaxImpact &&
		s.AvgConfidence >= tier.MinAvgConfidence
}
