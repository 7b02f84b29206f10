// Package normalize canonicalizes option labels typed by the
// administrator, so every spelling of "other" collapses to the single
// label the rest of the app matches against.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CanonicalOther is the fixed label produced for any recognized "other"
// variant. Downstream code detects the free-text escape option by exact
// string match against this value.
const CanonicalOther = "Otro(a): ¿Cuál?"

var otherVariants = map[string]struct{}{
	"otro":  {},
	"otra":  {},
	"otroa": {},
	"otros": {},
	"otras": {},
}

// stripMarks decomposes to NFD and removes the combining marks, leaving
// base letters only ("Opción" -> "Opcion").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Option returns the canonical display text for a raw option label:
// trimmed input, with the "other" variants collapsed to CanonicalOther.
// Comparison is accent- and case-insensitive and ignores whitespace and
// the characters ¿ ? ( ) :, but the returned text keeps the original
// casing and accents when no variant matches.
func Option(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	if _, ok := otherVariants[comparisonKey(text)]; ok {
		return CanonicalOther
	}
	return text
}

func comparisonKey(text string) string {
	plain, _, err := transform.String(stripMarks, text)
	if err != nil {
		plain = text
	}
	plain = strings.ToLower(plain)
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case r == '¿' || r == '?' || r == '(' || r == ')' || r == ':':
			return -1
		}
		return r
	}, plain)
}
