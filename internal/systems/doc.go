// Package systems defines the canonical gaming-system enumeration and the
// registry that maps each system to its short name, display name, recognized
// file extensions, and the native keys used by each reference database.
//
// Unknown is a sentinel, not an error: callers use it to mean "no system
// determined" and to disable system filters.
package systems
