// Package notifications delivers scan lifecycle events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set. The
// daemon is the only publisher; it reports background scan outcomes so users
// know when fresh analysis results are available without watching logs.
package notifications
