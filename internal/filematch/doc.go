// Package filematch implements the fuzzy filename policy shared by the
// reference-database adapters.
//
// Names are compared case-insensitively after folding accents, removing the
// file extension and any "(...)", "[...]" or "{...}" annotations, and
// treating punctuation as word breaks. Candidates fall into tiers (exact,
// normalized, prefix, substring) and exact matches always rank first; within a
// tier candidates are ordered by token similarity, then by input order.
package filematch
