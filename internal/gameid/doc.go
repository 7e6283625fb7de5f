// Package gameid validates ESPN game identifiers against their known
// numeric ranges and flags identifiers whose shape suggests placeholder
// or fabricated data.
package gameid
