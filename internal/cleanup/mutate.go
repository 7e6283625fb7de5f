package cleanup

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"statsweep/internal/recommend"
)

// FileResult records what happened to one archive file.
type FileResult struct {
	Path           string `json:"path"`
	GamesRemoved   int    `json:"gamesRemoved"`
	PlayersRemoved int    `json:"playersRemoved"`
	Changed        bool   `json:"changed"`
	Err            string `json:"error,omitempty"`
}

// applyToFile removes the targeted games and player entries from one
// file. Entries that do not match are preserved in their original
// order; the file is rewritten only when something was removed. When
// dryRun is set the counts are computed but nothing is written.
func applyToFile(path string, removals []recommend.Recommendation, dryRun bool) FileResult {
	result := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Sprintf("read: %v", err)
		return result
	}

	var wrapped map[string]any
	var legacy []any
	isLegacy := false
	if err := json.Unmarshal(data, &wrapped); err != nil {
		if arrErr := json.Unmarshal(data, &legacy); arrErr != nil {
			result.Err = fmt.Sprintf("parse: %v", err)
			return result
		}
		isLegacy = true
	}

	var gameTargets []recommend.Recommendation
	var playerTargets []recommend.Recommendation
	for _, rec := range removals {
		switch rec.Action {
		case recommend.ActionRemoveGame:
			gameTargets = append(gameTargets, rec)
		case recommend.ActionRemovePlayerGame:
			playerTargets = append(playerTargets, rec)
		}
	}

	if isLegacy {
		kept, removed := filterPlayers(legacy, playerTargets)
		result.PlayersRemoved = removed
		if removed > 0 {
			result.Changed = true
			if !dryRun {
				if err := writeJSONFile(path, kept); err != nil {
					result.Err = err.Error()
				}
			}
		}
		return result
	}

	if games, ok := wrapped["games"].([]any); ok && len(gameTargets) > 0 {
		var kept []any
		for _, raw := range games {
			if matchesGame(raw, gameTargets) {
				result.GamesRemoved++
				continue
			}
			kept = append(kept, raw)
		}
		if result.GamesRemoved > 0 {
			wrapped["games"] = emptyIfNil(kept)
		}
	}

	// Removing a game also drops its stat lines so no orphan player
	// entries reference the removed gameId.
	if players, ok := wrapped["players"].([]any); ok && (len(playerTargets) > 0 || len(gameTargets) > 0) {
		kept := make([]any, 0, len(players))
		removed := 0
		for _, raw := range players {
			if matchesPlayer(raw, playerTargets) || belongsToGame(raw, gameTargets) {
				removed++
				continue
			}
			kept = append(kept, raw)
		}
		result.PlayersRemoved = removed
		if removed > 0 {
			wrapped["players"] = kept
		}
	}

	if result.GamesRemoved > 0 || result.PlayersRemoved > 0 {
		result.Changed = true
		if !dryRun {
			if err := writeJSONFile(path, wrapped); err != nil {
				result.Err = err.Error()
			}
		}
	}
	return result
}

func filterPlayers(players []any, targets []recommend.Recommendation) ([]any, int) {
	if len(targets) == 0 {
		return players, 0
	}
	removed := 0
	kept := make([]any, 0, len(players))
	for _, raw := range players {
		if matchesPlayer(raw, targets) {
			removed++
			continue
		}
		kept = append(kept, raw)
	}
	return kept, removed
}

func matchesGame(raw any, targets []recommend.Recommendation) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	id := anyID(obj["gameId"])
	if id == "" {
		id = anyID(obj["originalId"])
	}
	if id == "" {
		return false
	}
	for _, rec := range targets {
		if rec.GameID == id {
			return true
		}
	}
	return false
}

func matchesPlayer(raw any, targets []recommend.Recommendation) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	name, _ := obj["name"].(string)
	team, _ := obj["team"].(string)
	if name == "" || team == "" {
		return false
	}
	key := name + "_" + team
	id := anyID(obj["gameId"])
	for _, rec := range targets {
		if rec.PlayerKey == key && rec.GameID == id {
			return true
		}
	}
	return false
}

// belongsToGame reports whether a player entry's gameId matches any
// game-removal target.
func belongsToGame(raw any, targets []recommend.Recommendation) bool {
	if len(targets) == 0 {
		return false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	id := anyID(obj["gameId"])
	if id == "" {
		return false
	}
	for _, rec := range targets {
		if rec.GameID == id {
			return true
		}
	}
	return false
}

// anyID renders a JSON id value, string or numeric, as a string.
func anyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func emptyIfNil(items []any) []any {
	if items == nil {
		return []any{}
	}
	return items
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %v", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write: %v", err)
	}
	return nil
}
