package filematch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"romlookup/internal/textutil"
)

var (
	reAnnotation  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	reSeparators  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reTrailingThe = regexp.MustCompile(`^(.+?), the(\s+-\s+.*)?$`)
)

// Normalize reduces a ROM filename or title to the form used for fuzzy
// comparison: "Pitfall! (CCE) (PAL-M) [!].a26" becomes "pitfall".
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = textutil.TrimExtension(name)
	name = fold(name)
	name = reAnnotation.ReplaceAllString(name, " ")
	name = collapse(name)
	if m := reTrailingThe.FindStringSubmatch(name); m != nil {
		name = "the " + m[1] + m[2]
	}
	name = reSeparators.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// BaseName strips only the extension and surrounding whitespace, keeping case
// and annotations.
func BaseName(name string) string {
	return strings.TrimSpace(textutil.TrimExtension(strings.TrimSpace(name)))
}

// SearchTerm builds a coarse LIKE pre-filter from the most selective word of
// the query. Letters that commonly carry diacritics become the single
// character wildcard "_", so "pokemon" and "pokémon" both select a stored
// "Pokémon". Words that keep non-ASCII letters after mark stripping are
// skipped. It returns false when no usable word has at least three letters.
func SearchTerm(query string) (string, bool) {
	name := textutil.TrimExtension(strings.TrimSpace(query))
	name = reAnnotation.ReplaceAllString(stripMarks(strings.ToLower(name)), " ")

	var best string
	for _, word := range reSeparators.Split(name, -1) {
		if len(word) > len(best) && isASCII(word) {
			best = word
		}
	}
	if len(best) < 3 {
		return "", false
	}

	pattern := []byte(best)
	for i, c := range pattern {
		if strings.IndexByte(accentable, c) >= 0 {
			pattern[i] = '_'
		}
	}
	return string(pattern), true
}

const accentable = "aceinouy"

// fold lowercases and strips combining marks.
func fold(s string) string {
	return stripMarks(cases.Fold().String(s))
}

// stripMarks removes combining marks. Transformers carry state, so each call
// builds its own chain.
func stripMarks(s string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return stripped
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
