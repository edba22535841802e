// Package config loads, normalizes, and validates romlookup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ROMLOOKUP_OPENVGDB_PATH. Reference database paths default to files inside the
// data directory, and the merge priority list is completed with any source the
// file omits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a complete priority list, and clear validation errors.
package config
