// Package daemon runs the long-lived services: the HTTP API server, the
// single-slot background scan runner, and the optional filesystem watcher
// that triggers rescans. A file lock keeps a second instance from starting.
package daemon
