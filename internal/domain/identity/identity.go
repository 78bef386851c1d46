// Package identity normalises the visitor name and document number typed at
// the front desk into the forms kept in the register.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const documentDigits = 11

// FormatDocumentNumber keeps the digits of input and punctuates them as
// XXX.XXX.XXX-XX when exactly eleven remain. Any other count is returned as the
// bare digit string.
func FormatDocumentNumber(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) != documentDigits {
		return digits
	}

	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// FormatDisplayName trims input, strips diacritics, drops every remaining
// non-ASCII character and upper-cases the result.
func FormatDisplayName(input string) string {
	t := transform.Chain(norm.NFKD, asciiOnly)

	out, _, _ := transform.String(t, strings.TrimSpace(input))
	return strings.ToUpper(strings.TrimSpace(out))
}
