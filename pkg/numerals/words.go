package numerals

import (
	"strings"

	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
)

var units = map[string]int{
	"אפס":   0,
	"אחת":   1,
	"אחד":   1,
	"שתיים": 2,
	"שתים":  2,
	"שניים": 2,
	"שנים":  2,
	"שתי":   2,
	"שני":   2,
	"שלוש":  3,
	"שלושה": 3,
	"ארבע":  4,
	"ארבעה": 4,
	"חמש":   5,
	"חמישה": 5,
	"חמשה":  5,
	"שש":    6,
	"שישה":  6,
	"ששה":   6,
	"שבע":   7,
	"שבעה":  7,
	"שמונה": 8,
	"תשע":   9,
	"תשעה":  9,
}

// ten also serves as the suffix of 11-19 ("תשע-עשרה").
var ten = map[string]bool{
	"עשר":  true,
	"עשרה": true,
}

var tens = map[string]int{
	"עשרים":  20,
	"שלושים": 30,
	"ארבעים": 40,
	"חמישים": 50,
	"שישים":  60,
	"שבעים":  70,
	"שמונים": 80,
	"תשעים":  90,
}

var hundreds = map[string]int{
	"מאה":    100,
	"מאתיים": 200,
}

// hundredsOf follows a unit 3-9: "שלוש-מאות" is 300.
const hundredsOf = "מאות"

// ordinals name the first ten Knessets ("הכנסת השמינית").
var ordinals = map[string]int{
	"ראשונה": 1,
	"שנייה":  2,
	"שניה":   2,
	"שלישית": 3,
	"רביעית": 4,
	"חמישית": 5,
	"שישית":  6,
	"שביעית": 7,
	"שמינית": 8,
	"תשיעית": 9,
	"עשירית": 10,
}

const conjunction = "ו"

// magnitudes of a component; a compound must be strictly descending.
const (
	magUnits    = 1
	magTens     = 2
	magHundreds = 3
)

func isWordSeparator(r rune) bool {
	switch r {
	case '-', '־', '–', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func isNumberWord(w string) bool {
	_, u := units[w]
	_, t := tens[w]
	_, h := hundreds[w]
	_, o := ordinals[w]
	return u || t || h || o || ten[w] || w == hundredsOf
}

// DecodeWords converts a spelled-out Hebrew number to an integer.
//
// A number is at most one hundreds component, then either a tens word and a
// unit, or a unit followed by "עשרה" (11-19), in descending order. The
// conjunction "ו" may prefix any component.
func DecodeWords(s string) (int, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, kperrors.NewNumeralError(s, "empty word numeral")
	}

	parts := strings.FieldsFunc(raw, isWordSeparator)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		w := p
		if !isNumberWord(w) && strings.HasPrefix(w, conjunction) {
			w = strings.TrimPrefix(w, conjunction)
		}
		if !isNumberWord(w) {
			return 0, kperrors.NewNumeralError(s, "unrecognized number word %q", p)
		}
		words = append(words, w)
	}

	if v, ok := ordinals[words[0]]; ok {
		if len(words) != 1 {
			return 0, kperrors.NewNumeralError(s, "ordinal %q cannot be compounded", words[0])
		}
		return v, nil
	}

	total := 0
	prev := magHundreds + 1
	add := func(value, mag, consumes int) error {
		if mag >= prev {
			return kperrors.NewNumeralError(s, "duplicate or misordered component")
		}
		total += value
		prev = consumes
		return nil
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		next := ""
		if i+1 < len(words) {
			next = words[i+1]
		}

		var err error
		switch {
		case w == hundredsOf:
			err = kperrors.NewNumeralError(s, "%q without a preceding unit", hundredsOf)
		case ordinals[w] > 0:
			err = kperrors.NewNumeralError(s, "ordinal %q cannot be compounded", w)
		case hundreds[w] > 0:
			err = add(hundreds[w], magHundreds, magHundreds)
		case tens[w] > 0:
			err = add(tens[w], magTens, magTens)
		case ten[w]:
			// a bare ten closes the number; units go before it as a teen
			err = add(10, magTens, magUnits)
		default:
			u := units[w]
			switch {
			case next == hundredsOf:
				if u < 3 {
					return 0, kperrors.NewNumeralError(s, "%q cannot multiply hundreds", w)
				}
				err = add(u*100, magHundreds, magHundreds)
				i++
			case ten[next]:
				if u == 0 {
					return 0, kperrors.NewNumeralError(s, "zero cannot form a teen")
				}
				// a teen fills both the tens and the units slot
				err = add(10+u, magTens, magUnits)
				i++
			case u == 0 && len(words) > 1:
				err = kperrors.NewNumeralError(s, "zero cannot be compounded")
			default:
				err = add(u, magUnits, magUnits)
			}
		}
		if err != nil {
			return 0, err
		}
	}

	if total == 0 {
		return 0, kperrors.NewNumeralError(s, "numeral sums to zero")
	}
	return total, nil
}
