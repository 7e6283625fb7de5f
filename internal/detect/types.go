package detect

import (
	"time"

	"statsweep/internal/dataset"
	"statsweep/internal/doubleheader"
	"statsweep/internal/gameid"
)

// Severity ranks how bad a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 3,
	SeverityHigh:     2,
	SeverityMedium:   1,
	SeverityLow:      0,
}

// Rank returns a sortable weight, higher meaning worse.
func (s Severity) Rank() int { return severityRank[s] }

// GameOccurrence is one sighting of a game identifier.
type GameOccurrence struct {
	Date string       `json:"date"`
	File string       `json:"file"`
	Path string       `json:"path"`
	Game dataset.Game `json:"game"`
}

// CrossDateFinding reports one identifier appearing on multiple dates.
type CrossDateFinding struct {
	GameID      string           `json:"gameId"`
	Dates       []string         `json:"dates"`
	Occurrences []GameOccurrence `json:"occurrences"`
	Matchups    []string         `json:"teamMatchups"`
	SameTeams   bool             `json:"sameTeams"`
	Severity    Severity         `json:"severity"`
}

// StatsImpact tallies the stat inflation a duplicate entry causes.
type StatsImpact struct {
	Hits     int `json:"extraHits"`
	AtBats   int `json:"extraAB"`
	Runs     int `json:"extraRuns"`
	RBI      int `json:"extraRBI"`
	HomeRuns int `json:"extraHR"`
}

// Add accumulates another impact into the receiver.
func (s *StatsImpact) Add(other StatsImpact) {
	s.Hits += other.Hits
	s.AtBats += other.AtBats
	s.Runs += other.Runs
	s.RBI += other.RBI
	s.HomeRuns += other.HomeRuns
}

// Issue types attached to a player finding.
const (
	IssueDuplicateGameID = "player_duplicate_gameId"
	IssueImpossibleStats = "impossible_stats"
)

// PlayerIssue is one problem found in a player's game log.
type PlayerIssue struct {
	Type        string               `json:"type"`
	GameID      string               `json:"gameId,omitempty"`
	Games       []dataset.PlayerGame `json:"games"`
	Severity    Severity             `json:"severity"`
	Description string               `json:"description,omitempty"`
	Impact      *StatsImpact         `json:"statsImpact,omitempty"`
}

// PlayerFinding aggregates everything wrong with one player's entries.
type PlayerFinding struct {
	PlayerKey     string        `json:"playerKey"`
	Name          string        `json:"playerName"`
	Team          string        `json:"team"`
	Issues        []PlayerIssue `json:"issues"`
	TotalGames    int           `json:"totalGames"`
	TotalImpact   StatsImpact   `json:"totalStatsImpact"`
	AffectedDates []string      `json:"affectedDates"`
}

// SameDateGroup is one suspicious matchup group on one date.
type SameDateGroup struct {
	Date     string                `json:"date"`
	File     string                `json:"file"`
	Path     string                `json:"path"`
	Matchup  string                `json:"matchup"`
	Games    []dataset.Game        `json:"games"`
	Analysis doubleheader.Analysis `json:"analysis"`
}

// Summary holds the headline counts for a full analysis.
type Summary struct {
	TotalIssues     int `json:"totalIssues"`
	AffectedPlayers int `json:"affectedPlayers"`
	AffectedDates   int `json:"affectedDates"`
}

// Metadata describes the corpus an analysis ran against.
type Metadata struct {
	AnalyzedAt   time.Time `json:"analysisDate"`
	DataDir      string    `json:"dataDirectory"`
	TotalDates   int       `json:"totalDates"`
	TotalPlayers int       `json:"totalPlayers"`
	TotalGames   int       `json:"totalGames"`
	TotalEntries int       `json:"totalPlayerEntries"`
}

// Analysis is the complete detection output for one run.
type Analysis struct {
	Metadata  Metadata            `json:"metadata"`
	CrossDate []CrossDateFinding  `json:"crossDateDuplicates"`
	Players   []PlayerFinding     `json:"playerDuplicates"`
	SameDate  []SameDateGroup     `json:"sameDateMultipleGames"`
	IDHealth  gameid.HealthReport `json:"gameIdHealth"`
	Summary   Summary             `json:"summary"`
}
