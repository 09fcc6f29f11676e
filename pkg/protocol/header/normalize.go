package header

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var bidiControls = runes.Predicate(func(r rune) bool {
	switch {
	case r == '\u200e', r == '\u200f', r == '\u061c', r == '\ufeff':
		return true
	case r >= '\u202a' && r <= '\u202e':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
})

var spaces = runes.Map(func(r rune) rune {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return ' '
	}
	return r
})

// Normalize prepares extracted text for anchor matching: NFC composition,
// Hebrew points and cantillation removed, bidi controls dropped and
// non-breaking spaces turned into spaces. Line breaks become "\n".
func Normalize(text string) string {
	// transformers carry state, so each call builds its own chain
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(bidiControls),
		spaces,
		norm.NFC,
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ReplaceAll(out, "\r\n", "\n")
}
