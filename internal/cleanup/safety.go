package cleanup

import (
	"fmt"

	"statsweep/internal/config"
	"statsweep/internal/recommend"
)

// SafetyCheck reports every safety cap a recommendation set would
// violate. An empty slice means the set is within bounds.
func SafetyCheck(recs []recommend.Recommendation, safety config.Safety) []error {
	files := make(map[string]bool)
	players := make(map[string]bool)
	for _, rec := range recs {
		if rec.File != "" {
			files[rec.File] = true
		}
		if rec.PlayerKey != "" {
			players[rec.PlayerKey] = true
		}
	}

	var violations []error
	if len(files) > safety.MaxFiles {
		violations = append(violations,
			fmt.Errorf("too many files affected: %d > %d", len(files), safety.MaxFiles))
	}
	if len(players) > safety.MaxPlayers {
		violations = append(violations,
			fmt.Errorf("too many players affected: %d > %d", len(players), safety.MaxPlayers))
	}
	if len(recs) > safety.MaxRemovals {
		violations = append(violations,
			fmt.Errorf("too many removals: %d > %d", len(recs), safety.MaxRemovals))
	}
	return violations
}
