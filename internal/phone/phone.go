// Package phone canonicalizes Spanish phone numbers for equality
// comparison and outbound formatting. Two raw inputs belong to the same
// customer iff their normalized forms are equal.
package phone

import "strings"

const (
	// CountryCode is the Spanish calling code, the only one the shop serves.
	CountryCode = "34"

	nationalDigits = 9
)

// Normalize strips whitespace, hyphens, parentheses, dots and a leading
// "+", then drops a leading country code when the remainder is longer than
// the 9-digit national number. It performs no digit-count validation:
// malformed input normalizes to itself minus the stripped characters.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-', '(', ')', '.':
		default:
			b.WriteRune(r)
		}
	}
	p := strings.TrimPrefix(b.String(), "+")
	if strings.HasPrefix(p, CountryCode) && len(p) > nationalDigits {
		p = p[len(CountryCode):]
	}
	return p
}

// Display returns the international form used in messaging deep links:
// the country code prepended to the normalized number, no "+".
func Display(raw string) string {
	return CountryCode + Normalize(raw)
}
