// Package openvgdb queries the OpenVGDB SQLite database.
//
// OpenVGDB keys systems by numeric ID and keeps one ROMs row per dump with
// release metadata (title, cover art, description) in RELEASES. It is the
// richest source romlookup reads and the only one exposing bulk artwork
// entries, so the artwork mapping tables are built from it.
package openvgdb
