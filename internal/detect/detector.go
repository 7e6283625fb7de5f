package detect

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"statsweep/internal/dataset"
	"statsweep/internal/doubleheader"
	"statsweep/internal/gameid"
	"statsweep/internal/logging"
)

// Stat lines beyond these are not achievable in a single game.
const (
	maxReasonableHits     = 6
	maxReasonableHomeRuns = 4
)

// Detector runs all detection passes. It never mutates the corpus.
type Detector struct {
	criteria doubleheader.Criteria
	logger   *slog.Logger
}

// New builds a detector with the given doubleheader criteria.
func New(criteria doubleheader.Criteria, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{
		criteria: criteria,
		logger:   logging.NewComponentLogger(logger, "detect"),
	}
}

// Analyze runs every pass and assembles the full analysis. Passes are
// independent; the same corpus always yields the same analysis.
func (d *Detector) Analyze(corpus *dataset.Corpus, dataDir string) *Analysis {
	analysis := &Analysis{
		Metadata: Metadata{
			AnalyzedAt:   time.Now().UTC(),
			DataDir:      dataDir,
			TotalDates:   len(corpus.Dates),
			TotalPlayers: len(corpus.Players),
			TotalGames:   corpus.TotalGames,
			TotalEntries: corpus.TotalEntries,
		},
	}

	usage := corpus.GameIDUsage()
	analysis.CrossDate = d.crossDateFindings(corpus, usage)
	analysis.Players = d.playerFindings(corpus)
	analysis.SameDate = d.sameDateGroups(corpus)
	analysis.IDHealth = d.idHealth(corpus, usage)

	affected := make(map[string]bool)
	for _, finding := range analysis.CrossDate {
		for _, date := range finding.Dates {
			affected[date] = true
		}
	}
	for _, group := range analysis.SameDate {
		affected[group.Date] = true
	}
	analysis.Summary = Summary{
		TotalIssues:     len(analysis.CrossDate) + len(analysis.Players) + len(analysis.SameDate),
		AffectedPlayers: len(analysis.Players),
		AffectedDates:   len(affected),
	}

	d.logger.Info("analysis complete",
		slog.Int("cross_date", len(analysis.CrossDate)),
		slog.Int("players", len(analysis.Players)),
		slog.Int("same_date_groups", len(analysis.SameDate)),
		slog.Int("total_issues", analysis.Summary.TotalIssues))
	return analysis
}

// crossDateFindings flags identifiers seen on more than one date.
// Severity is critical when the matchup changes between sightings and
// high when the same contest appears verbatim on multiple dates.
func (d *Detector) crossDateFindings(corpus *dataset.Corpus, usage map[string][]string) []CrossDateFinding {
	occurrences := make(map[string][]GameOccurrence)
	var order []string
	for _, date := range corpus.Dates {
		record := corpus.Records[date]
		for _, game := range record.Games {
			id := game.ID()
			if id == "" {
				continue
			}
			if _, seen := occurrences[id]; !seen {
				order = append(order, id)
			}
			occurrences[id] = append(occurrences[id], GameOccurrence{
				Date: record.Date,
				File: record.File,
				Path: record.Path,
				Game: game,
			})
		}
	}

	var findings []CrossDateFinding
	for _, id := range order {
		dates := usage[id]
		if len(dates) < 2 {
			continue
		}
		finding := CrossDateFinding{
			GameID:      id,
			Dates:       dates,
			Occurrences: occurrences[id],
		}
		matchupSeen := make(map[string]bool)
		for _, occ := range finding.Occurrences {
			m := occ.Game.Matchup()
			if !matchupSeen[m] {
				matchupSeen[m] = true
				finding.Matchups = append(finding.Matchups, m)
			}
		}
		finding.SameTeams = len(finding.Matchups) == 1
		if finding.SameTeams {
			finding.Severity = SeverityHigh
		} else {
			finding.Severity = SeverityCritical
		}
		findings = append(findings, finding)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity.Rank() > findings[j].Severity.Rank()
		}
		return len(findings[i].Occurrences) > len(findings[j].Occurrences)
	})
	return findings
}

// playerFindings walks every player's game log looking for repeated
// identifiers and stat lines that cannot happen.
func (d *Detector) playerFindings(corpus *dataset.Corpus) []PlayerFinding {
	var findings []PlayerFinding
	for _, key := range corpus.PlayerKeys() {
		games := corpus.Players[key]
		var issues []PlayerIssue

		seen := make(map[string]dataset.PlayerGame)
		for _, game := range games {
			id := game.Entry.GameID.String()
			if id == "" {
				continue
			}
			if first, dup := seen[id]; dup {
				impact := &StatsImpact{
					Hits:     int(game.Entry.Hits),
					AtBats:   int(game.Entry.AtBats),
					Runs:     int(game.Entry.Runs),
					RBI:      int(game.Entry.RBI),
					HomeRuns: int(game.Entry.HomeRuns),
				}
				issues = append(issues, PlayerIssue{
					Type:     IssueDuplicateGameID,
					GameID:   id,
					Games:    []dataset.PlayerGame{first, game},
					Severity: SeverityHigh,
					Impact:   impact,
				})
			} else {
				seen[id] = game
			}
		}

		for _, game := range games {
			if !game.Entry.IsHitter() {
				continue
			}
			hits := int(game.Entry.Hits)
			ab := int(game.Entry.AtBats)
			hr := int(game.Entry.HomeRuns)
			if hits > maxReasonableHits {
				issues = append(issues, PlayerIssue{
					Type:        IssueImpossibleStats,
					Games:       []dataset.PlayerGame{game},
					Severity:    SeverityMedium,
					Description: fmt.Sprintf("%d hits in one game is extremely unlikely", hits),
				})
			}
			if hr > maxReasonableHomeRuns {
				issues = append(issues, PlayerIssue{
					Type:        IssueImpossibleStats,
					Games:       []dataset.PlayerGame{game},
					Severity:    SeverityMedium,
					Description: fmt.Sprintf("%d home runs in one game is extremely unlikely", hr),
				})
			}
			if hits > 0 && ab == 0 {
				issues = append(issues, PlayerIssue{
					Type:        IssueImpossibleStats,
					Games:       []dataset.PlayerGame{game},
					Severity:    SeverityHigh,
					Description: fmt.Sprintf("%d hits with 0 at-bats is impossible", hits),
				})
			}
		}

		if len(issues) == 0 {
			continue
		}

		finding := PlayerFinding{
			PlayerKey:  key,
			TotalGames: len(games),
			Issues:     issues,
		}
		if len(games) > 0 {
			finding.Name = games[0].Entry.Name
			finding.Team = games[0].Entry.Team
		}
		dateSeen := make(map[string]bool)
		for _, issue := range issues {
			if issue.Impact != nil {
				finding.TotalImpact.Add(*issue.Impact)
			}
			for _, g := range issue.Games {
				if !dateSeen[g.Date] {
					dateSeen[g.Date] = true
					finding.AffectedDates = append(finding.AffectedDates, g.Date)
				}
			}
		}
		sort.Strings(finding.AffectedDates)
		findings = append(findings, finding)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].TotalImpact.Hits > findings[j].TotalImpact.Hits
	})
	return findings
}

// sameDateGroups evaluates every date with multiple games for the same
// matchup and keeps the groups the validator refuses to bless.
func (d *Detector) sameDateGroups(corpus *dataset.Corpus) []SameDateGroup {
	var groups []SameDateGroup
	for _, date := range corpus.Dates {
		record := corpus.Records[date]
		if len(record.Games) < 2 {
			continue
		}

		byMatchup := make(map[string][]dataset.Game)
		var matchups []string
		for _, game := range record.Games {
			m := game.Matchup()
			if _, seen := byMatchup[m]; !seen {
				matchups = append(matchups, m)
			}
			byMatchup[m] = append(byMatchup[m], game)
		}

		for _, matchup := range matchups {
			games := byMatchup[matchup]
			if len(games) < 2 {
				continue
			}
			analysis := doubleheader.Evaluate(games, rosterSizes(record, games), d.criteria)
			if analysis.Legitimate {
				continue
			}
			groups = append(groups, SameDateGroup{
				Date:     record.Date,
				File:     record.File,
				Path:     record.Path,
				Matchup:  matchup,
				Games:    games,
				Analysis: analysis,
			})
		}
	}
	return groups
}

func (d *Detector) idHealth(corpus *dataset.Corpus, usage map[string][]string) gameid.HealthReport {
	var refs []gameid.GameRef
	for _, date := range corpus.Dates {
		for _, game := range corpus.Records[date].Games {
			refs = append(refs, gameid.GameRef{ID: game.ID(), Date: date})
		}
	}
	return gameid.BuildHealthReport(refs, usage)
}

// rosterSizes counts the player entries recorded against each game's
// identifier within the same date file.
func rosterSizes(record *dataset.DateRecord, games []dataset.Game) []int {
	counts := make(map[string]int)
	for _, entry := range record.Players {
		counts[entry.GameID.String()]++
	}
	sizes := make([]int, len(games))
	for i, game := range games {
		sizes[i] = counts[game.ID()]
	}
	return sizes
}
