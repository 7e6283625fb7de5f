// Package decision chooses between automatic execution, manual review,
// and blocking, from an aggregate snapshot of a recommendation set.
// The engine is a pure function so the same snapshot always yields the
// same action.
package decision
