// Package main hosts the romlookup CLI entrypoint and command graph.
//
// The Cobra-based command tree opens the configured reference databases,
// runs one lookup facade query per invocation, and renders the answer as a
// table on a terminal, plain lines when piped, or JSON with --json. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on presenting results.
//
// Keep this package lean: lookup behaviour belongs in internal/lookup and the
// adapters under internal/services. Commands here only parse arguments and
// format output.
package main
