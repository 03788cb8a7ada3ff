// Package services defines shared utilities consumed by the API layer and the
// scanning pipeline.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent client-visible kinds and HTTP status codes.
//   - Context helpers that stamp correlation identifiers for logging.
//
// Use these helpers when wiring new handlers so operational behaviour (error
// classification, observability) stays uniform across the system.
package services
