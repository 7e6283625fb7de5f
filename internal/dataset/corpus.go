package dataset

import "sort"

// Corpus is the loaded archive: one record per date plus indexes built
// in a single pass. Detection never mutates it; cleanup writes back to
// disk and reloads.
type Corpus struct {
	Dates   []string
	Records map[string]*DateRecord

	// Players maps playerKey to that player's entries across all
	// dates, in date order.
	Players map[string][]PlayerGame

	TotalGames   int
	TotalEntries int
}

func newCorpus(records []*DateRecord) *Corpus {
	sortRecords(records)

	corpus := &Corpus{
		Records: make(map[string]*DateRecord, len(records)),
		Players: make(map[string][]PlayerGame),
	}
	for _, record := range records {
		if existing, dup := corpus.Records[record.Date]; dup {
			// Two files claiming the same date: merge so nothing
			// silently disappears from analysis.
			existing.Games = append(existing.Games, record.Games...)
			existing.Players = append(existing.Players, record.Players...)
			continue
		}
		corpus.Dates = append(corpus.Dates, record.Date)
		corpus.Records[record.Date] = record
	}

	for _, date := range corpus.Dates {
		record := corpus.Records[date]
		corpus.TotalGames += len(record.Games)
		corpus.TotalEntries += len(record.Players)
		for _, entry := range record.Players {
			key := entry.Key()
			corpus.Players[key] = append(corpus.Players[key], PlayerGame{
				Entry: entry,
				Date:  record.Date,
				File:  record.File,
				Path:  record.Path,
			})
		}
	}
	return corpus
}

// Record returns the record for a date, or nil.
func (c *Corpus) Record(date string) *DateRecord {
	return c.Records[date]
}

// PlayerKeys returns every known playerKey in sorted order so that
// iteration over the index is deterministic.
func (c *Corpus) PlayerKeys() []string {
	keys := make([]string, 0, len(c.Players))
	for key := range c.Players {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GameIDUsage counts, per game identifier, the dates it appears on.
func (c *Corpus) GameIDUsage() map[string][]string {
	usage := make(map[string][]string)
	for _, date := range c.Dates {
		seen := make(map[string]bool)
		for _, game := range c.Records[date].Games {
			id := game.ID()
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			usage[id] = append(usage[id], date)
		}
	}
	return usage
}
