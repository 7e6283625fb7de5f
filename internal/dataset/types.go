package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is a game identifier that may appear in the source JSON as a
// string or a bare number. It is normalized to its string form.
type FlexID string

// UnmarshalJSON accepts "401696251", 401696251, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON always emits the string form.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// Int64 parses the identifier as a number. Non-numeric identifiers
// return ok=false.
func (f FlexID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(f), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f FlexID) String() string { return string(f) }

// FlexInt is a stat counter that may appear as a number, a numeric
// string, or null in older exports.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("stat value %q: %w", s, err)
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(int(n))
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Game is one scheduled or completed game on a date.
type Game struct {
	GameID     FlexID `json:"gameId"`
	OriginalID FlexID `json:"originalId,omitempty"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	Venue      string `json:"venue,omitempty"`
	DateTime   string `json:"dateTime,omitempty"`
	HomeScore  *int   `json:"homeScore,omitempty"`
	AwayScore  *int   `json:"awayScore,omitempty"`
	Status     string `json:"status,omitempty"`
}

// ID returns the effective identifier, preferring gameId and falling
// back to originalId for records written before the rename.
func (g Game) ID() string {
	if g.GameID != "" {
		return g.GameID.String()
	}
	return g.OriginalID.String()
}

// Matchup renders the game as AWAY@HOME, the key used to group games
// that involve the same two teams.
func (g Game) Matchup() string {
	return g.AwayTeam + "@" + g.HomeTeam
}

// PlayerGameEntry is one player's box-score line for one game.
type PlayerGameEntry struct {
	Name       string `json:"name"`
	Team       string `json:"team"`
	GameID     FlexID `json:"gameId"`
	PlayerType string `json:"playerType,omitempty"`

	AtBats   FlexInt `json:"AB"`
	Hits     FlexInt `json:"H"`
	Runs     FlexInt `json:"R"`
	RBI      FlexInt `json:"RBI"`
	HomeRuns FlexInt `json:"HR"`
}

// Key identifies a player across dates. Name alone is ambiguous, so the
// team abbreviation is folded in.
func (p PlayerGameEntry) Key() string {
	return p.Name + "_" + p.Team
}

// IsHitter reports whether the entry carries hitting stats. Entries
// without an explicit playerType predate the field and were always
// hitters.
func (p PlayerGameEntry) IsHitter() bool {
	return p.PlayerType == "" || p.PlayerType == "hitter"
}

// DateRecord is the parsed content of one archive file.
type DateRecord struct {
	Date    string
	Period  string
	File    string
	Path    string
	Legacy  bool
	Games   []Game
	Players []PlayerGameEntry
}

// PlayerGame is a player entry annotated with the date and file it was
// loaded from.
type PlayerGame struct {
	Entry PlayerGameEntry
	Date  string
	File  string
	Path  string
}
