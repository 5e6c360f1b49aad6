// Package sanitize canonicalizes raw field and view names from the input
// model. Canonicalization is total and stable: the same input always yields
// the same output within a run.
package sanitize

import (
	"strings"
	"unicode"
)

// CanonicalizeName converts a raw display name to its canonical form:
// non-alphanumeric runs become word boundaries and each word is capitalized.
// "line items " and "Line_Items" both canonicalize to "LineItems".
func CanonicalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	newWord := true
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			newWord = true
			continue
		}
		if newWord {
			b.WriteRune(unicode.ToUpper(r))
			newWord = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayName trims a raw name for presentation without altering its words.
func DisplayName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// FileName converts a canonical name to a lowercase artifact file stem.
func FileName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
