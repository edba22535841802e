// Package refdb opens the reference databases romlookup queries.
//
// Every database is a pre-built SQLite file opened read-only through
// modernc.org/sqlite. A DB carries the table layout its adapter depends on and
// verifies it once, on first use, so a file built from an unexpected schema
// degrades that source to "no opinion" instead of failing row by row. Query
// errors are tagged with services markers so callers can classify them with
// errors.Is.
package refdb
