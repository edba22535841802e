package filematch

import (
	"slices"
	"strings"

	"romlookup/internal/textutil"
)

// Tier orders how closely a candidate matched. Higher is better.
type Tier int

const (
	TierNone Tier = iota
	TierSubstring
	TierPrefix
	TierNormalized
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierNormalized:
		return "normalized"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Match is the score of one candidate against a query.
type Match struct {
	Candidate  string
	Index      int
	Tier       Tier
	Similarity float64
}

// Matches reports whether candidate matches query at any tier.
func Matches(query, candidate string) bool {
	return tierOf(query, Normalize(query), candidate, Normalize(candidate)) > TierNone
}

// Score rates a single candidate.
func Score(query, candidate string) Match {
	nq, nc := Normalize(query), Normalize(candidate)
	tier := tierOf(query, nq, candidate, nc)
	m := Match{Candidate: candidate, Tier: tier}
	if tier > TierNone {
		m.Similarity = textutil.CosineSimilarity(textutil.NewFingerprint(nq), textutil.NewFingerprint(nc))
	}
	return m
}

// Rank scores every candidate and returns the matching ones, best first.
// Similarity inside a tier is IDF-weighted over the candidate set so words
// shared by all candidates do not dominate.
func Rank(query string, candidates []string) []Match {
	if len(candidates) == 0 {
		return nil
	}
	nq := Normalize(query)
	if nq == "" {
		return nil
	}

	normalized := make([]string, len(candidates))
	fingerprints := make([]*textutil.Fingerprint, len(candidates))
	corpus := textutil.NewCorpus()
	for i, c := range candidates {
		normalized[i] = Normalize(c)
		fingerprints[i] = textutil.NewFingerprint(normalized[i])
		corpus.Add(fingerprints[i])
	}
	idf := corpus.IDF()
	queryFP := textutil.NewFingerprint(nq).WithIDF(idf)

	var out []Match
	for i, c := range candidates {
		tier := tierOf(query, nq, c, normalized[i])
		if tier == TierNone {
			continue
		}
		out = append(out, Match{
			Candidate:  c,
			Index:      i,
			Tier:       tier,
			Similarity: textutil.CosineSimilarity(queryFP, fingerprints[i].WithIDF(idf)),
		})
	}
	slices.SortStableFunc(out, compareMatches)
	return out
}

// Best returns the highest-ranked matching candidate.
func Best(query string, candidates []string) (Match, bool) {
	ranked := Rank(query, candidates)
	if len(ranked) == 0 {
		return Match{}, false
	}
	return ranked[0], true
}

func compareMatches(a, b Match) int {
	if a.Tier != b.Tier {
		return int(b.Tier) - int(a.Tier)
	}
	switch {
	case a.Similarity > b.Similarity:
		return -1
	case a.Similarity < b.Similarity:
		return 1
	}
	return a.Index - b.Index
}

func tierOf(query, nq, candidate, nc string) Tier {
	query, candidate = strings.TrimSpace(query), strings.TrimSpace(candidate)
	if query == "" || candidate == "" {
		return TierNone
	}
	if strings.EqualFold(query, candidate) || strings.EqualFold(BaseName(query), BaseName(candidate)) {
		return TierExact
	}
	if nq == "" || nc == "" {
		return TierNone
	}
	switch {
	case nq == nc:
		return TierNormalized
	case strings.HasPrefix(nc, nq+" "):
		return TierPrefix
	case strings.Contains(" "+nc+" ", " "+nq+" "):
		return TierSubstring
	}
	return TierNone
}

// Filter keeps the items whose name matches query, best match first.
func Filter[T any](query string, items []T, name func(T) string) []T {
	if len(items) == 0 {
		return nil
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = name(item)
	}
	ranked := Rank(query, names)
	if len(ranked) == 0 {
		return nil
	}
	out := make([]T, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, items[m.Index])
	}
	return out
}
