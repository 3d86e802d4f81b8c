// Package notifications delivers run-level events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The align command reports run completion and failure through the
// Service interface so the HTTP glue stays out of the pipeline.
package notifications
