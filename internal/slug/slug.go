// Package slug converts arbitrary labels (analyst names, room labels,
// Portuguese location headers) into a safe ASCII token set for room ids and
// report filenames.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and drops combining marks, so "Localização"
// becomes "Localizacao" rather than losing characters outright.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonToken = regexp.MustCompile(`[^a-z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// Make returns a lowercase ASCII slug. Unmappable input collapses to "".
func Make(value string) string {
	s, _, err := transform.String(stripMarks, value)
	if err != nil {
		s = value
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonToken.ReplaceAllString(s, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// MakeOr returns Make(value), or fallback when the slug comes out empty.
func MakeOr(value, fallback string) string {
	if s := Make(value); s != "" {
		return s
	}
	return fallback
}
