// Package services defines shared utilities consumed by the reference-database
// adapters and the lookup facade.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, source names, and operation
//     names for logging.
//   - Structured error markers plus the Wrap helper that let the facade tell a
//     source with no opinion apart from a failure the caller must see.
//
// The adapters themselves live in subpackages, one per reference database.
package services
