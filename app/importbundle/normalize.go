package importbundle

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a header or keyword to its comparable form: lowercased,
// accents stripped, everything except letters and digits removed. "Prénom",
// "prenom " and "PRENOM:" all collapse to "prenom".
func Normalize(s string) string {
	if out, _, err := transform.String(accentStripper, s); err == nil {
		s = out
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
