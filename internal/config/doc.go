// Package config loads, normalizes, and validates statsweep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates every policy knob the detection
// and cleanup pipeline depends on: scoring confidences, decision thresholds,
// the known corruption window, and safety caps.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
