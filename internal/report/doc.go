// Package report writes the durable audit artifacts of a run: JSON
// analysis reports, cleanup summaries, and approved-batch files a
// reviewer hands back to the cleanup command.
package report
