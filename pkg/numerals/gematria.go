package numerals

import (
	"fmt"
	"strings"

	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
)

const (
	// Geresh marks a single-letter numeral: "פ'".
	Geresh = '\''
	// Gershayim precedes the last letter of a multi-letter numeral: "רי\"ט".
	Gershayim = '"'
)

var letterValues = map[rune]int{
	'א': 1, 'ב': 2, 'ג': 3, 'ד': 4, 'ה': 5, 'ו': 6, 'ז': 7, 'ח': 8, 'ט': 9,
	'י': 10, 'כ': 20, 'ל': 30, 'מ': 40, 'נ': 50, 'ס': 60, 'ע': 70, 'פ': 80, 'צ': 90,
	'ק': 100, 'ר': 200, 'ש': 300, 'ת': 400,
	'ך': 20, 'ם': 40, 'ן': 50, 'ף': 80, 'ץ': 90,
}

// encoding order, largest first; final forms are never emitted
var letterOrder = []rune{'ת', 'ש', 'ר', 'ק', 'צ', 'פ', 'ע', 'ס', 'נ', 'מ', 'ל', 'כ', 'י', 'ט', 'ח', 'ז', 'ו', 'ה', 'ד', 'ג', 'ב', 'א'}

var markReplacer = strings.NewReplacer(
	"׳", "'", "’", "'", "‘", "'", "`", "'",
	"״", `"`, "”", `"`, "“", `"`, "''", `"`,
)

// Substitutions maps a tens-and-units remainder to the letters written in its
// place. Plain additive spelling of 15 and 16 would form a divine name, so
// they are written ט"ו and ט"ז.
type Substitutions map[int]string

// DefaultSubstitutions is the customary table.
func DefaultSubstitutions() Substitutions {
	return Substitutions{15: "טו", 16: "טז"}
}

// Validate checks that every entry is a 1-99 remainder spelled with letters
// that add up to it.
func (s Substitutions) Validate() error {
	for n, letters := range s {
		if n < 1 || n > 99 {
			return fmt.Errorf("substitution key %d out of range 1-99", n)
		}
		sum := 0
		for _, r := range letters {
			v, ok := letterValues[r]
			if !ok {
				return fmt.Errorf("substitution %d: %q is not a numeral letter", n, r)
			}
			sum += v
		}
		if sum != n {
			return fmt.Errorf("substitution %d: %q adds up to %d", n, letters, sum)
		}
	}
	return nil
}

// Gematria decodes and encodes letter numerals.
type Gematria struct {
	subs Substitutions
}

// NewGematria returns a codec using subs for encoding. A nil table uses
// DefaultSubstitutions; empty entries are ignored.
func NewGematria(subs Substitutions) *Gematria {
	if subs == nil {
		subs = DefaultSubstitutions()
	}
	return &Gematria{subs: subs}
}

// NormalizeMarks rewrites typographic geresh and gershayim variants to ASCII
// quote marks.
func NormalizeMarks(s string) string {
	return markReplacer.Replace(strings.TrimSpace(s))
}

// Decode sums the letter values of token. A single letter must be followed by
// a geresh; longer numerals must carry a gershayim before the last letter.
func (g *Gematria) Decode(token string) (int, error) {
	norm := NormalizeMarks(token)
	if norm == "" {
		return 0, kperrors.NewGematriaError(token, "empty letter numeral")
	}

	runes := []rune(norm)
	var letters []rune
	switch n := len(runes); {
	case n == 2 && runes[1] == Geresh:
		letters = runes[:1]
	case n >= 3 && runes[n-2] == Gershayim:
		letters = append(append(letters, runes[:n-2]...), runes[n-1])
	default:
		return 0, kperrors.NewGematriaError(token, "missing or misplaced geresh/gershayim")
	}

	total := 0
	for _, r := range letters {
		v, ok := letterValues[r]
		if !ok {
			return 0, kperrors.NewGematriaError(token, "unrecognized letter %q", r)
		}
		total += v
	}
	if total == 0 {
		return 0, kperrors.NewGematriaError(token, "numeral sums to zero")
	}
	return total, nil
}

// Encode writes n (1-999) as a letter numeral with ASCII marks.
func (g *Gematria) Encode(n int) (string, error) {
	if n < 1 || n > 999 {
		return "", fmt.Errorf("cannot encode %d: out of range 1-999", n)
	}

	var b strings.Builder
	h := n / 100 * 100
	for h > 0 {
		for _, r := range letterOrder {
			if v := letterValues[r]; v <= h && v >= 100 {
				b.WriteRune(r)
				h -= v
				break
			}
		}
	}

	rest := n % 100
	if sub := g.subs[rest]; sub != "" {
		b.WriteString(sub)
		rest = 0
	}
	for rest > 0 {
		for _, r := range letterOrder {
			if v := letterValues[r]; v <= rest {
				b.WriteRune(r)
				rest -= v
				break
			}
		}
	}

	letters := []rune(b.String())
	if len(letters) == 1 {
		return string(letters) + string(Geresh), nil
	}
	last := len(letters) - 1
	return string(letters[:last]) + string(Gershayim) + string(letters[last]), nil
}

var defaultGematria = NewGematria(nil)

// DecodeLetters decodes token with the default codec.
func DecodeLetters(token string) (int, error) {
	return defaultGematria.Decode(token)
}

// EncodeLetters encodes n with the default codec.
func EncodeLetters(n int) (string, error) {
	return defaultGematria.Encode(n)
}
