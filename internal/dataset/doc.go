// Package dataset loads the per-date JSON archive into an in-memory
// corpus. Each file holds one date worth of games and player box-score
// entries; the loader tolerates both the current wrapped object shape
// and the legacy bare player array.
package dataset
