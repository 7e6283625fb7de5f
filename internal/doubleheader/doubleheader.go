package doubleheader

import (
	"fmt"
	"sort"
	"time"

	"statsweep/internal/dataset"
	"statsweep/internal/gameid"
)

// Criteria bounds what a real day/night doubleheader looks like.
type Criteria struct {
	MinSeparation     time.Duration
	MaxSeparation     time.Duration
	TypicalSeparation time.Duration
	MaxRosterVariance float64
	MinGames          int
	MaxGames          int
	SequentialGap     int64
}

// DefaultCriteria returns the tuning used in production: games 3 to 8
// hours apart (typically around 4.5), roster sizes within 30% of each
// other, at most three games a day, and "sequential" meaning two ids
// within 10 of each other.
func DefaultCriteria() Criteria {
	return Criteria{
		MinSeparation:     3 * time.Hour,
		MaxSeparation:     8 * time.Hour,
		TypicalSeparation: time.Duration(4.5 * float64(time.Hour)),
		MaxRosterVariance: 0.3,
		MinGames:          2,
		MaxGames:          3,
		SequentialGap:     10,
	}
}

// Classification is the terminal label for a same-date group.
type Classification string

const (
	ClassLegitimate        Classification = "legitimate_doubleheader"
	ClassDuplicateData     Classification = "duplicate_data"
	ClassDifferentGames    Classification = "different_games"
	ClassDifferentVenues   Classification = "different_venues"
	ClassSuspiciousPattern Classification = "suspicious_pattern"
	ClassUnknown           Classification = "unknown"
)

// Checks are the six independent legitimacy tests. The first three are
// critical: a group failing any of them is never a legitimate
// doubleheader regardless of overall confidence.
type Checks struct {
	SameTeams                bool `json:"sameTeams"`
	SameVenue                bool `json:"sameVenue"`
	DifferentGameIDs         bool `json:"differentGameIds"`
	ReasonableTimeSeparation bool `json:"reasonableTimeSeparation"`
	ConsistentRosters        bool `json:"consistentPlayerCounts"`
	ValidGameIDs             bool `json:"validGameIds"`
}

// Passed counts the checks that held.
func (c Checks) Passed() int {
	n := 0
	for _, ok := range []bool{
		c.SameTeams, c.SameVenue, c.DifferentGameIDs,
		c.ReasonableTimeSeparation, c.ConsistentRosters, c.ValidGameIDs,
	} {
		if ok {
			n++
		}
	}
	return n
}

// CriticalPass reports whether all three critical checks held.
func (c Checks) CriticalPass() bool {
	return c.SameTeams && c.SameVenue && c.DifferentGameIDs
}

const totalChecks = 6

// Analysis is the verdict for one same-date group of games.
type Analysis struct {
	GameCount         int             `json:"gameCount"`
	Matchups          []string        `json:"matchups,omitempty"`
	Venues            []string        `json:"venues,omitempty"`
	GameIDs           []string        `json:"gameIds,omitempty"`
	DuplicateIDs      []string        `json:"duplicateIds,omitempty"`
	Sequential        bool            `json:"sequential"`
	RosterSizes       []int           `json:"rosterSizes,omitempty"`
	MaxRosterVariance float64         `json:"maxRosterVariance"`
	Separations       []time.Duration `json:"-"`
	Checks            Checks          `json:"checks"`
	Confidence        float64         `json:"confidence"`
	Legitimate        bool            `json:"legitimate"`
	Classification    Classification  `json:"classification"`
	Reason            string          `json:"reason"`
}

// Evaluate runs the six checks over a group of games sharing a date.
// rosters carries the per-game roster size, aligned with games; nil
// skips the roster check (it passes vacuously, like missing times do).
func Evaluate(games []dataset.Game, rosters []int, criteria Criteria) Analysis {
	a := Analysis{GameCount: len(games), Classification: ClassUnknown}
	if len(games) < criteria.MinGames {
		a.Reason = "not enough games to form a doubleheader"
		return a
	}
	if len(games) > criteria.MaxGames {
		a.Confidence = 0.9
		a.Classification = ClassSuspiciousPattern
		a.Reason = fmt.Sprintf("%d games on one date exceeds any real schedule", len(games))
		return a
	}

	a.Matchups = uniqueStrings(games, func(g dataset.Game) string { return g.Matchup() })
	a.Venues = uniqueStrings(games, func(g dataset.Game) string { return g.Venue })

	seen := make(map[string]bool)
	dupSeen := make(map[string]bool)
	for _, g := range games {
		id := g.ID()
		if id == "" {
			continue
		}
		if seen[id] && !dupSeen[id] {
			a.DuplicateIDs = append(a.DuplicateIDs, id)
			dupSeen[id] = true
		}
		if !seen[id] {
			a.GameIDs = append(a.GameIDs, id)
			seen[id] = true
		}
	}
	a.Sequential = sequentialIDs(a.GameIDs, criteria.SequentialGap)

	a.RosterSizes = rosters
	a.MaxRosterVariance = maxRosterVariance(rosters)
	a.Separations = separations(games)

	a.Checks = Checks{
		SameTeams:                len(a.Matchups) == 1,
		SameVenue:                len(a.Venues) <= 1,
		DifferentGameIDs:         len(a.DuplicateIDs) == 0,
		ReasonableTimeSeparation: separationsReasonable(a.Separations, criteria),
		ConsistentRosters:        a.MaxRosterVariance <= criteria.MaxRosterVariance,
		ValidGameIDs:             a.Sequential || allValidRanges(a.GameIDs),
	}
	a.Confidence = float64(a.Checks.Passed()) / totalChecks

	switch {
	case a.Checks.CriticalPass() && a.Confidence >= 0.7:
		a.Legitimate = true
		a.Classification = ClassLegitimate
		a.Reason = "passes all critical checks for a legitimate doubleheader"
	case len(a.DuplicateIDs) > 0:
		a.Classification = ClassDuplicateData
		a.Reason = "identical game identifiers indicate duplicated data"
	case len(a.Matchups) > 1:
		a.Classification = ClassDifferentGames
		a.Reason = "different team matchups indicate separate games"
	case len(a.Venues) > 1:
		a.Classification = ClassDifferentVenues
		a.Reason = "different venues indicate separate series"
	default:
		a.Classification = ClassSuspiciousPattern
		a.Reason = fmt.Sprintf("low confidence (%d%%) in doubleheader legitimacy", int(a.Confidence*100))
	}
	return a
}

// RemovalCandidates returns the games a duplicate_data verdict says to
// drop: everything but the earliest-starting game. Groups with any
// other classification yield nothing.
func RemovalCandidates(games []dataset.Game, a Analysis) []dataset.Game {
	if a.Classification != ClassDuplicateData || len(games) < 2 {
		return nil
	}
	ordered := make([]dataset.Game, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, iok := ParseGameTime(ordered[i].DateTime)
		tj, jok := ParseGameTime(ordered[j].DateTime)
		if iok && jok {
			return ti.Before(tj)
		}
		return iok && !jok
	})
	return ordered[1:]
}

// ParseGameTime accepts the datetime formats seen in the archive.
func ParseGameTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func separations(games []dataset.Game) []time.Duration {
	var diffs []time.Duration
	for i := 0; i < len(games)-1; i++ {
		a, aok := ParseGameTime(games[i].DateTime)
		b, bok := ParseGameTime(games[i+1].DateTime)
		if !aok || !bok {
			continue
		}
		diff := b.Sub(a)
		if diff < 0 {
			diff = -diff
		}
		diffs = append(diffs, diff)
	}
	return diffs
}

// separationsReasonable holds when every measured gap fits the window.
// No measurable gaps means no counter-evidence, so it passes.
func separationsReasonable(diffs []time.Duration, c Criteria) bool {
	for _, d := range diffs {
		if d < c.MinSeparation || d > c.MaxSeparation {
			return false
		}
	}
	return true
}

func maxRosterVariance(rosters []int) float64 {
	if len(rosters) == 0 {
		return 0
	}
	total := 0
	for _, n := range rosters {
		total += n
	}
	avg := float64(total) / float64(len(rosters))
	if avg == 0 {
		return 0
	}
	max := 0.0
	for _, n := range rosters {
		v := float64(n) - avg
		if v < 0 {
			v = -v
		}
		if v/avg > max {
			max = v / avg
		}
	}
	return max
}

func sequentialIDs(ids []string, gap int64) bool {
	if len(ids) != 2 {
		return false
	}
	a, aok := dataset.FlexID(ids[0]).Int64()
	b, bok := dataset.FlexID(ids[1]).Int64()
	if !aok || !bok {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= gap
}

func allValidRanges(ids []string) bool {
	for _, id := range ids {
		v := gameid.Validate(id)
		if !v.Valid || v.Range == gameid.RangeSchedule {
			return false
		}
	}
	return len(ids) > 0
}

func uniqueStrings(games []dataset.Game, key func(dataset.Game) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range games {
		k := key(g)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
