// Package detect runs the duplicate-detection passes over a loaded
// corpus: cross-date identifier reuse, per-player duplicate entries and
// impossible stat lines, and same-date multi-game groups that fail
// doubleheader legitimacy.
package detect
