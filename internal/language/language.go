package language

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// names holds the languages No-Intro DAT names and OpenVGDB's romLanguage
// column tag dumps with, keyed by ISO 639-1 code.
var names = map[string]string{
	"da": "Danish",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"sv": "Swedish",
	"zh": "Chinese",
}

// aliases maps ISO 639-2 codes (both B and T forms) and lower-cased English
// names to ISO 639-1.
var aliases = func() map[string]string {
	m := map[string]string{
		"dan": "da", "deu": "de", "ger": "de", "eng": "en", "spa": "es",
		"fin": "fi", "fra": "fr", "fre": "fr", "ita": "it", "jpn": "ja",
		"kor": "ko", "nld": "nl", "dut": "nl", "nor": "no", "pol": "pl",
		"por": "pt", "rus": "ru", "swe": "sv", "zho": "zh", "chi": "zh",
	}
	for code, name := range names {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// Code resolves a language tag in any known spelling to ISO 639-1. Codes
// outside the table are accepted when they name a registered ISO 639
// language with a two-letter form.
func Code(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if _, ok := names[tag]; ok {
		return tag, true
	}
	if code, ok := aliases[tag]; ok {
		return code, true
	}
	if base, err := language.ParseBase(tag); err == nil {
		if code := base.String(); len(code) == 2 {
			return code, true
		}
	}
	return "", false
}

// DisplayName returns the English name for a language tag. Unknown tags are
// shown upper-cased and an empty tag as "Unknown".
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Unknown"
	}
	if code, ok := Code(tag); ok {
		if name, ok := names[code]; ok {
			return name
		}
		if name := display.English.Languages().Name(language.MustParseBase(code)); name != "" {
			return name
		}
	}
	return strings.ToUpper(tag)
}

// Normalize rewrites a delimited language field ("En,Fr", "English / German")
// as comma-separated ISO 639-1 codes in their original order, without
// repeats. Tags it does not know are kept lower-cased.
func Normalize(value string) string {
	tags := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(",;/+|", r)
	})
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		code, ok := Code(tag)
		if !ok {
			code = strings.ToLower(strings.TrimSpace(tag))
		}
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return strings.Join(out, ",")
}
