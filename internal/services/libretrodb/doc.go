// Package libretrodb queries the SQLite export of libretro-database.
//
// Platforms are keyed by their libretro playlist names ("Nintendo - Super
// Nintendo Entertainment System"). The database holds no artwork itself;
// cover URLs are derived from the libretro thumbnail server layout.
package libretrodb
