// Package sysmap translates between canonical system identifiers and the
// native system keys of each reference database: OpenVGDB numeric IDs,
// libretro-database platform names, and ShiraGame platform codes.
//
// Each direction is total over the systems a source supports and injective,
// so records from different databases compare as equals once normalized.
// Unsupported identifiers resolve to false, never to an error.
package sysmap
