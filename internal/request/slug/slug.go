// Package slug normalizes requested site names into DNS-label-shaped slugs.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps slugs at DNS label size.
const MaxLength = 63

// valid matches the canonical slug alphabet.
var valid = regexp.MustCompile(`^[a-z0-9-]+$`)

// stripMarks decomposes characters and removes combining marks, so "café"
// normalizes to "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, converts whitespace and
// underscores to hyphens, and collapses hyphen runs. The result is not
// guaranteed valid: punctuation outside the slug alphabet survives so that
// Validate can reject it rather than silently dropping characters the
// requester typed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return '-'
		}
		return r
	}, s)

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	return valid.MatchString(s)
}
