package recommend

import (
	"fmt"
	"sort"

	"statsweep/internal/detect"
	"statsweep/internal/doubleheader"
)

// Actions a recommendation can carry.
const (
	ActionRemoveGame       = "remove_game"
	ActionRemovePlayerGame = "remove_player_game"
)

// Recommendation is one proposed removal. It is the unit shown to a
// reviewer, written to approved-batch files, and consumed by cleanup.
type Recommendation struct {
	Action     string              `json:"action"`
	Reason     string              `json:"reason"`
	File       string              `json:"file"`
	GameID     string              `json:"gameId"`
	Date       string              `json:"date"`
	PlayerKey  string              `json:"playerKey,omitempty"`
	Severity   detect.Severity     `json:"severity"`
	Confidence float64             `json:"confidence"`
	Impact     *detect.StatsImpact `json:"statsImpact,omitempty"`
}

// Generator derives recommendations from an analysis under one policy.
type Generator struct {
	policy Policy
}

// NewGenerator builds a generator with the given policy.
func NewGenerator(policy Policy) *Generator {
	return &Generator{policy: policy}
}

// Generate walks the three finding families and emits removals:
// cross-date duplicates keep only the earliest occurrence, same-date
// duplicate_data groups keep only the earliest-starting game, and
// player duplicates are removed only when their date falls inside the
// corruption window. Output is sorted by confidence descending, then
// severity descending; order is stable, so repeated runs over the same
// analysis produce identical output.
func (g *Generator) Generate(analysis *detect.Analysis) []Recommendation {
	var recs []Recommendation

	for _, finding := range analysis.CrossDate {
		if finding.Severity != detect.SeverityCritical && finding.Severity != detect.SeverityHigh {
			continue
		}
		occurrences := make([]detect.GameOccurrence, len(finding.Occurrences))
		copy(occurrences, finding.Occurrences)
		sort.SliceStable(occurrences, func(i, j int) bool {
			return occurrences[i].Date < occurrences[j].Date
		})
		for _, occ := range occurrences[1:] {
			recs = append(recs, Recommendation{
				Action:     ActionRemoveGame,
				Reason:     fmt.Sprintf("cross-date duplicate of gameId %s", finding.GameID),
				File:       occ.Path,
				GameID:     finding.GameID,
				Date:       occ.Date,
				Severity:   finding.Severity,
				Confidence: g.policy.CrossDate,
			})
		}
	}

	for _, group := range analysis.SameDate {
		if group.Analysis.Classification != doubleheader.ClassDuplicateData {
			continue
		}
		for _, game := range doubleheader.RemovalCandidates(group.Games, group.Analysis) {
			recs = append(recs, Recommendation{
				Action:     ActionRemoveGame,
				Reason:     "duplicate data on same date",
				File:       group.Path,
				GameID:     game.ID(),
				Date:       group.Date,
				Severity:   detect.SeverityHigh,
				Confidence: g.policy.SameDate,
			})
		}
	}

	for _, finding := range analysis.Players {
		for _, issue := range finding.Issues {
			if issue.Type != detect.IssueDuplicateGameID {
				continue
			}
			for _, game := range issue.Games {
				if !g.policy.InWindow(game.Date) {
					continue
				}
				recs = append(recs, Recommendation{
					Action:     ActionRemovePlayerGame,
					Reason:     "player duplicate in known corruption window",
					File:       game.Path,
					GameID:     game.Entry.GameID.String(),
					Date:       game.Date,
					PlayerKey:  finding.PlayerKey,
					Severity:   detect.SeverityHigh,
					Confidence: g.policy.PlayerWindow,
					Impact:     issue.Impact,
				})
			}
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].Severity.Rank() > recs[j].Severity.Rank()
	})
	return recs
}

// HighConfidence filters the subset at or above the policy cutoff.
func (g *Generator) HighConfidence(recs []Recommendation) []Recommendation {
	var out []Recommendation
	for _, rec := range recs {
		if rec.Confidence >= g.policy.HighConfidence {
			out = append(out, rec)
		}
	}
	return out
}

// Policy returns the generator's scoring policy.
func (g *Generator) Policy() Policy { return g.policy }
