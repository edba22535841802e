// Package shiragame reads the ShiraGame SQLite database.
//
// ShiraGame is generated from No-Intro and Redump DATs and ships without
// secondary indexes, so the client loads the rom and game tables once into
// an in-memory index and answers every query from it. Platforms use
// ShiraGame's upper-case identifiers such as NINTENDO_SNES. The database
// carries no artwork.
package shiragame
