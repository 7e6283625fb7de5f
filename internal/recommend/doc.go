// Package recommend turns detection findings into concrete removal
// recommendations, each tagged with the policy confidence of its
// source.
package recommend
