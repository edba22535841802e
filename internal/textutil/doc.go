// Package textutil provides the text helpers shared by filename matching and
// artwork URL construction.
//
// The primary use cases are:
//   - Building token fingerprints of game titles and comparing them with
//     cosine similarity, optionally IDF-weighted over a candidate set
//   - Applying the libretro thumbnail naming rule to ROM names
//   - Percent-encoding URL path segments without touching sub-delimiters
//
// Tokenization lowercases text, splits on anything that is not a letter or
// digit, and drops single-letter words.
package textutil
