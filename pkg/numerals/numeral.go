// Package numerals decodes the two Hebrew numeral notations used in plenum
// protocol headers: spelled-out number words ("מאתיים-ותשע-עשרה") and
// letter numerals with geresh/gershayim marks ("רי\"ט").
package numerals

import (
	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
)

// Kind selects the notation of a Numeral.
type Kind int

const (
	// KindWord is a spelled-out number ("עשרים").
	KindWord Kind = iota + 1
	// KindLetter is a letter numeral ("כ\"א").
	KindLetter
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindLetter:
		return "letter"
	default:
		return "unknown"
	}
}

// Numeral is a numeral token in a known notation. Present is false when the
// header had no value for it.
type Numeral struct {
	Kind    Kind
	Text    string
	Present bool
	// Anchor is the label phrase the token was looked up by, if any.
	Anchor string
}

// Word returns a present word numeral.
func Word(text string) Numeral {
	return Numeral{Kind: KindWord, Text: text, Present: true}
}

// Letters returns a present letter numeral.
func Letters(text string) Numeral {
	return Numeral{Kind: KindLetter, Text: text, Present: true}
}

// Absent returns a numeral of the given kind that was not found under anchor.
func Absent(kind Kind, anchor string) Numeral {
	return Numeral{Kind: kind, Anchor: anchor}
}

// Decoder converts a Numeral to its integer value.
type Decoder interface {
	Decode(n Numeral) (int, error)
}

// DefaultDecoder dispatches on Kind to the word grammar or to a Gematria codec.
type DefaultDecoder struct {
	gematria *Gematria
}

// NewDecoder returns a DefaultDecoder. A nil codec uses the default
// substitution table.
func NewDecoder(g *Gematria) *DefaultDecoder {
	if g == nil {
		g = NewGematria(nil)
	}
	return &DefaultDecoder{gematria: g}
}

// Decode implements Decoder. An absent or empty token is a numeral parse
// error whose chain carries ErrAnchorNotFound.
func (d *DefaultDecoder) Decode(n Numeral) (int, error) {
	if !n.Present || n.Text == "" {
		return 0, &kperrors.ParseError{
			Code:    kperrors.CodeNumeralParse,
			Message: "numeral token is absent",
			Cause:   kperrors.NewAnchorNotFound("", n.Anchor),
		}
	}
	switch n.Kind {
	case KindWord:
		return DecodeWords(n.Text)
	case KindLetter:
		return d.gematria.Decode(n.Text)
	default:
		return 0, kperrors.NewNumeralError(n.Text, "unknown numeral kind %d", int(n.Kind))
	}
}
