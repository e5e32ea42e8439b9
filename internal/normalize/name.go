// Package normalize prepares company names for use in search queries.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes matches legal-entity designators as whole words. RE2's \b only
// knows ASCII word characters, so the boundaries are spelled out over Unicode
// letters and digits and captured to be put back. The optional trailing dot
// covers "Ltda." and "Ltd." forms.
var legalSuffixes = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])(?:ltda|ltd|llc|eireli|limited|s/a|sa)\.?([^\p{L}\p{N}_]|$)`)

// Name strips diacritics, legal-entity suffixes and punctuation from a
// company name and collapses whitespace. The result is only meant for
// matching; it is never shown as the company name.
//
// Name is idempotent: Name(Name(s)) == Name(s).
func Name(name string) string {
	if name == "" {
		return ""
	}

	name = stripDiacritics(name)
	name = stripSuffixes(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, name)
	// Removing punctuation can expose a suffix such as "S.A." -> "SA".
	name = stripSuffixes(name)
	// Dropping punctuation can leave composable sequences (Hangul jamo) adjacent.
	name = norm.NFC.String(name)
	return strings.Join(strings.Fields(name), " ")
}

// stripSuffixes repeats the replacement because a match consumes the boundary
// the next suffix would need, as in "SA LTDA".
func stripSuffixes(s string) string {
	for {
		out := legalSuffixes.ReplaceAllString(s, "${1} ${2}")
		if out == s {
			return out
		}
		s = out
	}
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
