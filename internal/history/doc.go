// Package history persists an audit record of every analysis and
// cleanup run in a local SQLite database. The database is an index
// over what happened; the per-date JSON files remain the only mutable
// source of truth for the archive itself.
package history
