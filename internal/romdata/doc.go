// Package romdata holds the value types shared by the reference-database
// adapters, the merger, and the lookup facade: the per-source SourceRecord, the
// canonical ROMMetadata, and the artwork mapping tables.
//
// Values carry no back-references and are safe to share across goroutines
// once built.
package romdata
