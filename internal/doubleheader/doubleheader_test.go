package doubleheader

import (
	"testing"
	"time"

	"statsweep/internal/dataset"
)

func pairGame(id, dateTime string) dataset.Game {
	return dataset.Game{
		GameID:   dataset.FlexID(id),
		HomeTeam: "NYY",
		AwayTeam: "BOS",
		Venue:    "Yankee Stadium",
		DateTime: dateTime,
	}
}

func TestEvaluateLegitimateDoubleheader(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", "2025-07-04T13:05:00Z"),
		pairGame("401500101", "2025-07-04T17:05:00Z"),
	}
	a := Evaluate(games, []int{22, 23}, DefaultCriteria())

	if !a.Legitimate {
		t.Fatalf("expected legitimate, got %s (%s)", a.Classification, a.Reason)
	}
	if a.Classification != ClassLegitimate {
		t.Fatalf("classification = %s", a.Classification)
	}
	if !a.Checks.SameTeams || !a.Checks.SameVenue || !a.Checks.DifferentGameIDs {
		t.Fatalf("critical checks failed: %+v", a.Checks)
	}
	if a.Confidence < 0.7 {
		t.Fatalf("confidence = %v", a.Confidence)
	}
}

func TestEvaluateSharedIdentifierIsDuplicateData(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", "2025-07-04T13:05:00Z"),
		pairGame("401500100", "2025-07-04T17:05:00Z"),
	}
	a := Evaluate(games, []int{22, 23}, DefaultCriteria())

	if a.Legitimate {
		t.Fatal("shared identifier must never be legitimate")
	}
	if a.Classification != ClassDuplicateData {
		t.Fatalf("classification = %s, want duplicate_data", a.Classification)
	}
	if len(a.DuplicateIDs) != 1 || a.DuplicateIDs[0] != "401500100" {
		t.Fatalf("duplicate ids = %v", a.DuplicateIDs)
	}
}

func TestEvaluateDifferentMatchups(t *testing.T) {
	g2 := pairGame("401500101", "2025-07-04T17:05:00Z")
	g2.AwayTeam = "TB"
	games := []dataset.Game{pairGame("401500100", "2025-07-04T13:05:00Z"), g2}
	a := Evaluate(games, nil, DefaultCriteria())
	if a.Classification != ClassDifferentGames {
		t.Fatalf("classification = %s", a.Classification)
	}
}

func TestEvaluateDifferentVenues(t *testing.T) {
	g2 := pairGame("401500101", "2025-07-04T17:05:00Z")
	g2.Venue = "Fenway Park"
	games := []dataset.Game{pairGame("401500100", "2025-07-04T13:05:00Z"), g2}
	a := Evaluate(games, nil, DefaultCriteria())
	if a.Classification != ClassDifferentVenues {
		t.Fatalf("classification = %s", a.Classification)
	}
}

func TestEvaluateTooManyGames(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", ""),
		pairGame("401500101", ""),
		pairGame("401500102", ""),
		pairGame("401500103", ""),
	}
	a := Evaluate(games, nil, DefaultCriteria())
	if a.Legitimate || a.Classification != ClassSuspiciousPattern {
		t.Fatalf("four games: legitimate=%v classification=%s", a.Legitimate, a.Classification)
	}
}

func TestEvaluateTightSeparationFailsCheck(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", "2025-07-04T13:05:00Z"),
		pairGame("401500101", "2025-07-04T13:35:00Z"),
	}
	a := Evaluate(games, []int{22, 23}, DefaultCriteria())
	if a.Checks.ReasonableTimeSeparation {
		t.Fatal("30 minute gap should fail the separation check")
	}
}

func TestEvaluateRosterVariance(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", "2025-07-04T13:05:00Z"),
		pairGame("401500101", "2025-07-04T17:05:00Z"),
	}
	a := Evaluate(games, []int{30, 5}, DefaultCriteria())
	if a.Checks.ConsistentRosters {
		t.Fatalf("variance %v should exceed 30%% cap", a.MaxRosterVariance)
	}
}

func TestRemovalCandidatesKeepsEarliest(t *testing.T) {
	early := pairGame("401500100", "2025-07-04T13:05:00Z")
	late := pairGame("401500100", "2025-07-04T17:05:00Z")
	games := []dataset.Game{late, early}
	a := Evaluate(games, nil, DefaultCriteria())

	removals := RemovalCandidates(games, a)
	if len(removals) != 1 {
		t.Fatalf("expected 1 removal, got %d", len(removals))
	}
	if removals[0].DateTime != late.DateTime {
		t.Fatalf("kept the later game, removed %s", removals[0].DateTime)
	}
}

func TestRemovalCandidatesOnlyForDuplicateData(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500100", "2025-07-04T13:05:00Z"),
		pairGame("401500101", "2025-07-04T17:05:00Z"),
	}
	a := Evaluate(games, []int{22, 23}, DefaultCriteria())
	if got := RemovalCandidates(games, a); got != nil {
		t.Fatalf("legitimate doubleheader produced removals: %v", got)
	}
}

func TestParseGameTimeFormats(t *testing.T) {
	for _, value := range []string{
		"2025-07-04T13:05:00Z",
		"2025-07-04T13:05:00",
		"2025-07-04 13:05:00",
	} {
		if _, ok := ParseGameTime(value); !ok {
			t.Fatalf("failed to parse %q", value)
		}
	}
	if _, ok := ParseGameTime("not a time"); ok {
		t.Fatal("parsed garbage")
	}
}

func TestSeparationsAbsolute(t *testing.T) {
	games := []dataset.Game{
		pairGame("401500101", "2025-07-04T17:05:00Z"),
		pairGame("401500100", "2025-07-04T13:05:00Z"),
	}
	diffs := separations(games)
	if len(diffs) != 1 || diffs[0] != 4*time.Hour {
		t.Fatalf("diffs = %v", diffs)
	}
}
