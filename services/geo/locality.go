package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, trims it and strips diacritics so that
// "São Paulo " and "sao paulo" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// SameLocality reports whether a candidate city/state matches the client's.
// The state must match exactly (after folding) and the candidate city must
// contain the client city. An empty client city never matches.
func SameLocality(clientCity, clientState, city, state string) bool {
	cc := Fold(clientCity)
	if cc == "" {
		return false
	}
	if Fold(clientState) != Fold(state) {
		return false
	}
	return strings.Contains(Fold(city), cc)
}
