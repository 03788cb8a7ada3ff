// Package api defines the wire types of the HTTP interface and the service
// layer that adapts the library cache, scan runner, and matching engine to
// them.
package api
