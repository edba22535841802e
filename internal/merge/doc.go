// Package merge combines per-source lookup results into deduplicated canonical
// records.
//
// Records are normalized through a system resolver, grouped by MD5 (or by
// system and filename when no hash is known), and each field of a group is
// taken from the highest-priority source that has a value for it. Output order
// is the order in which groups first appear when walking sources by priority,
// so identical input always yields identical output.
package merge
