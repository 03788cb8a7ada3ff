// Package logs provides file tailing for the daemon log.
//
// It reads with bounded memory, supports "last N lines" via a negative
// offset, and powers follow mode for `mixcrate daemon logs --follow`. Callers
// supply context deadlines so polling shuts down cleanly when the CLI exits.
package logs
