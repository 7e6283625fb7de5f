package gameid

import "fmt"

// GameRef is the minimal slice of a game the health report needs.
type GameRef struct {
	ID   string
	Date string
}

// HealthReport summarizes identifier quality across the archive.
type HealthReport struct {
	TotalGames      int               `json:"totalGames"`
	ValidGames      int               `json:"validGames"`
	SuspiciousGames int               `json:"suspiciousGames"`
	InvalidGames    int               `json:"invalidGames"`
	Distribution    map[Range]int     `json:"rangeDistribution"`
	Suspicious      []PatternAnalysis `json:"suspicious,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// BuildHealthReport runs validation and pattern analysis over every
// game reference. usage maps identifiers to the dates carrying them;
// pass nil to skip the reuse rule.
func BuildHealthReport(games []GameRef, usage map[string][]string) HealthReport {
	report := HealthReport{Distribution: make(map[Range]int)}
	for _, game := range games {
		report.TotalGames++
		validation := Validate(game.ID)
		report.Distribution[validation.Range]++
		if validation.Valid {
			report.ValidGames++
		} else {
			report.InvalidGames++
		}

		ctx := Context{Date: game.Date}
		if usage != nil {
			ctx.UsageCount = len(usage[game.ID])
		}
		analysis := AnalyzePattern(game.ID, ctx)
		if analysis.Suspicious {
			report.SuspiciousGames++
			report.Suspicious = append(report.Suspicious, analysis)
		}
	}

	if report.InvalidGames > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("%d games carry identifiers outside every known ESPN range; re-fetch those dates", report.InvalidGames))
	}
	if report.SuspiciousGames > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("%d games have suspicious identifier patterns; review before trusting their stats", report.SuspiciousGames))
	}
	if schedule := report.Distribution[RangeSchedule]; schedule > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("%d games use schedule-range identifiers and may lack box scores", schedule))
	}
	return report
}
