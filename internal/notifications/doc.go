// Package notifications delivers run milestones via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic
// configured in config.toml and degrades to a no-op when no topic is
// set. Event categories can be toggled individually so an operator can
// keep error alerts while muting routine cleanup summaries.
package notifications
