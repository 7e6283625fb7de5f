package detect

import (
	"reflect"
	"testing"

	"statsweep/internal/dataset"
	"statsweep/internal/doubleheader"
)

func buildCorpus(t *testing.T, records ...*dataset.DateRecord) *dataset.Corpus {
	t.Helper()
	corpus := &dataset.Corpus{
		Records: make(map[string]*dataset.DateRecord),
		Players: make(map[string][]dataset.PlayerGame),
	}
	for _, record := range records {
		corpus.Dates = append(corpus.Dates, record.Date)
		corpus.Records[record.Date] = record
		corpus.TotalGames += len(record.Games)
		corpus.TotalEntries += len(record.Players)
		for _, entry := range record.Players {
			corpus.Players[entry.Key()] = append(corpus.Players[entry.Key()], dataset.PlayerGame{
				Entry: entry,
				Date:  record.Date,
				File:  record.File,
				Path:  record.Path,
			})
		}
	}
	return corpus
}

func game(id, home, away, venue, dateTime string) dataset.Game {
	return dataset.Game{
		GameID:   dataset.FlexID(id),
		HomeTeam: home,
		AwayTeam: away,
		Venue:    venue,
		DateTime: dateTime,
	}
}

func entry(name, team, gameID string, ab, h, r, rbi, hr int) dataset.PlayerGameEntry {
	return dataset.PlayerGameEntry{
		Name:       name,
		Team:       team,
		GameID:     dataset.FlexID(gameID),
		PlayerType: "hitter",
		AtBats:     dataset.FlexInt(ab),
		Hits:       dataset.FlexInt(h),
		Runs:       dataset.FlexInt(r),
		RBI:        dataset.FlexInt(rbi),
		HomeRuns:   dataset.FlexInt(hr),
	}
}

func TestCrossDateSeverity(t *testing.T) {
	corpus := buildCorpus(t,
		&dataset.DateRecord{
			Date: "2025-07-04", File: "july_2025-07-04.json",
			Games: []dataset.Game{
				game("401500100", "NYY", "BOS", "Yankee Stadium", ""),
				game("401500200", "LAD", "SF", "Dodger Stadium", ""),
			},
		},
		&dataset.DateRecord{
			Date: "2025-07-05", File: "july_2025-07-05.json",
			Games: []dataset.Game{
				// Same id, same matchup: verbatim duplicate.
				game("401500100", "NYY", "BOS", "Yankee Stadium", ""),
				// Same id, different matchup: corrupted identifier.
				game("401500200", "CHC", "STL", "Wrigley Field", ""),
			},
		},
	)

	analysis := New(doubleheader.DefaultCriteria(), nil).Analyze(corpus, "/data")
	if len(analysis.CrossDate) != 2 {
		t.Fatalf("expected 2 cross-date findings, got %d", len(analysis.CrossDate))
	}

	// Critical sorts first.
	first := analysis.CrossDate[0]
	if first.GameID != "401500200" || first.Severity != SeverityCritical {
		t.Fatalf("first finding = %s/%s, want 401500200/critical", first.GameID, first.Severity)
	}
	if first.SameTeams {
		t.Fatal("different matchups reported as same teams")
	}

	second := analysis.CrossDate[1]
	if second.GameID != "401500100" || second.Severity != SeverityHigh {
		t.Fatalf("second finding = %s/%s, want 401500100/high", second.GameID, second.Severity)
	}
	if !second.SameTeams {
		t.Fatal("identical matchup not reported as same teams")
	}
}

func TestPlayerDuplicateGameID(t *testing.T) {
	corpus := buildCorpus(t,
		&dataset.DateRecord{
			Date: "2025-07-04", File: "a.json",
			Players: []dataset.PlayerGameEntry{entry("A. Judge", "NYY", "401500100", 4, 2, 1, 1, 0)},
		},
		&dataset.DateRecord{
			Date: "2025-07-05", File: "b.json",
			Players: []dataset.PlayerGameEntry{entry("A. Judge", "NYY", "401500100", 4, 3, 2, 2, 1)},
		},
	)

	analysis := New(doubleheader.DefaultCriteria(), nil).Analyze(corpus, "/data")
	if len(analysis.Players) != 1 {
		t.Fatalf("expected 1 player finding, got %d", len(analysis.Players))
	}
	finding := analysis.Players[0]
	if finding.PlayerKey != "A. Judge_NYY" {
		t.Fatalf("player key = %q", finding.PlayerKey)
	}
	if len(finding.Issues) != 1 || finding.Issues[0].Type != IssueDuplicateGameID {
		t.Fatalf("issues = %+v", finding.Issues)
	}
	// Impact counts only the second occurrence's stats.
	want := StatsImpact{Hits: 3, AtBats: 4, Runs: 2, RBI: 2, HomeRuns: 1}
	if finding.TotalImpact != want {
		t.Fatalf("impact = %+v, want %+v", finding.TotalImpact, want)
	}
	if !reflect.DeepEqual(finding.AffectedDates, []string{"2025-07-04", "2025-07-05"}) {
		t.Fatalf("affected dates = %v", finding.AffectedDates)
	}
}

func TestImpossibleStats(t *testing.T) {
	corpus := buildCorpus(t, &dataset.DateRecord{
		Date: "2025-07-04", File: "a.json",
		Players: []dataset.PlayerGameEntry{
			entry("B. Hacker", "BOS", "401500101", 8, 7, 0, 0, 0),
			entry("C. Slugger", "BOS", "401500102", 6, 5, 5, 9, 5),
			entry("D. Ghost", "BOS", "401500103", 0, 2, 0, 0, 0),
		},
	})

	analysis := New(doubleheader.DefaultCriteria(), nil).Analyze(corpus, "/data")
	if len(analysis.Players) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(analysis.Players))
	}

	byKey := make(map[string]PlayerFinding)
	for _, f := range analysis.Players {
		byKey[f.PlayerKey] = f
	}
	if issues := byKey["B. Hacker_BOS"].Issues; len(issues) != 1 || issues[0].Severity != SeverityMedium {
		t.Fatalf("hits cap: %+v", issues)
	}
	if issues := byKey["C. Slugger_BOS"].Issues; len(issues) != 1 || issues[0].Severity != SeverityMedium {
		t.Fatalf("hr cap: %+v", issues)
	}
	if issues := byKey["D. Ghost_BOS"].Issues; len(issues) != 1 || issues[0].Severity != SeverityHigh {
		t.Fatalf("hits without at-bats: %+v", issues)
	}
}

func TestSameDateDuplicateGroupSurfaces(t *testing.T) {
	corpus := buildCorpus(t, &dataset.DateRecord{
		Date: "2025-07-04", File: "a.json",
		Games: []dataset.Game{
			game("401500100", "NYY", "BOS", "Yankee Stadium", "2025-07-04T13:05:00Z"),
			game("401500100", "NYY", "BOS", "Yankee Stadium", "2025-07-04T17:05:00Z"),
		},
	})

	analysis := New(doubleheader.DefaultCriteria(), nil).Analyze(corpus, "/data")
	if len(analysis.SameDate) != 1 {
		t.Fatalf("expected 1 suspicious group, got %d", len(analysis.SameDate))
	}
	group := analysis.SameDate[0]
	if group.Analysis.Classification != doubleheader.ClassDuplicateData {
		t.Fatalf("classification = %s", group.Analysis.Classification)
	}
	if group.Matchup != "BOS@NYY" {
		t.Fatalf("matchup = %q", group.Matchup)
	}
}

func TestLegitimateDoubleheaderNotFlagged(t *testing.T) {
	record := &dataset.DateRecord{
		Date: "2025-07-04", File: "a.json",
		Games: []dataset.Game{
			game("401500100", "NYY", "BOS", "Yankee Stadium", "2025-07-04T13:05:00Z"),
			game("401500101", "NYY", "BOS", "Yankee Stadium", "2025-07-04T17:05:00Z"),
		},
	}
	for i := 0; i < 22; i++ {
		record.Players = append(record.Players,
			entry("P1", "NYY", "401500100", 4, 1, 0, 0, 0),
			entry("P2", "NYY", "401500101", 4, 1, 0, 0, 0))
	}
	corpus := buildCorpus(t, record)

	analysis := New(doubleheader.DefaultCriteria(), nil).Analyze(corpus, "/data")
	if len(analysis.SameDate) != 0 {
		t.Fatalf("legitimate doubleheader flagged: %+v", analysis.SameDate[0].Analysis)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	corpus := buildCorpus(t,
		&dataset.DateRecord{
			Date: "2025-07-04", File: "a.json",
			Games:   []dataset.Game{game("401500100", "NYY", "BOS", "Yankee Stadium", "")},
			Players: []dataset.PlayerGameEntry{entry("A. Judge", "NYY", "401500100", 4, 2, 1, 1, 0)},
		},
		&dataset.DateRecord{
			Date: "2025-07-05", File: "b.json",
			Games:   []dataset.Game{game("401500100", "NYY", "BOS", "Yankee Stadium", "")},
			Players: []dataset.PlayerGameEntry{entry("A. Judge", "NYY", "401500100", 4, 2, 1, 1, 0)},
		},
	)

	detector := New(doubleheader.DefaultCriteria(), nil)
	first := detector.Analyze(corpus, "/data")
	second := detector.Analyze(corpus, "/data")

	first.Metadata.AnalyzedAt = second.Metadata.AnalyzedAt
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated analysis of an unmutated corpus differs")
	}
}
