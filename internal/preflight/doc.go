// Package preflight provides readiness checks for the reference databases
// romlookup reads.
//
// The CLI "romlookup check" command runs RunAll and prints one line per
// check. Each enabled database is checked for presence, read permission, and
// the tables and columns its adapter queries. Disabled databases are
// reported but never fail the run.
package preflight
