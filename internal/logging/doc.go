// Package logging assembles the slog loggers used across romlookup.
//
// It owns the console and JSON handlers, maps configured levels and outputs
// onto them, and exposes context helpers that tag records with the request
// correlation ID, the reference database being queried, and the facade
// operation. NewNop gives tests and optional wiring a logger that cannot fail.
package logging
