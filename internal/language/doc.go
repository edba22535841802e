// Package language normalizes the language lists reference databases attach
// to ROMs.
//
// Dumps tag languages in several spellings ("En,Fr,De", "English",
// "eng"). Normalize reduces all of them to lower-case ISO 639-1 codes so
// merged records compare and display consistently.
package language
