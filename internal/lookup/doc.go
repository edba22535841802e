// Package lookup is the entry point for ROM identification.
//
// A Facade holds one Source per reference database. Every query fans out to
// all sources concurrently, waits for them, and merges their answers with
// internal/merge using the configured source priority. A source that fails
// or cannot serve the requested system contributes nothing; only caller
// cancellation and missing databases at Open surface as errors.
//
// Facades are explicitly constructed and safe for concurrent use. The only
// state they keep between calls is the memoized artwork mapping.
package lookup
