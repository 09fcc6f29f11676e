// Package errors provides the error kinds reported while loading a plenum
// protocol and resolving its header fields.
//
// Every failure carries one of a small set of sentinel kinds so callers can
// branch with errors.Is() regardless of how deeply the error was wrapped.
//
// Usage:
//
//	import kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
//
//	n, err := doc.BookletNum()
//	if kperrors.IsNumeralParse(err) {
//	    // the header had no usable booklet number
//	}
package errors

import "errors"

// Error kinds.
var (
	// ErrLoad indicates the source document could not be turned into text.
	ErrLoad = errors.New("load error")

	// ErrAnchorNotFound indicates a header label phrase is missing from the text.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrNumeralParse indicates a numeral or month token did not match its grammar.
	ErrNumeralParse = errors.New("numeral parse error")

	// ErrGematriaParse indicates a letter numeral could not be decoded.
	// Every gematria failure is also a numeral parse failure.
	ErrGematriaParse = errors.New("gematria parse error")

	// ErrClosed indicates a field was read after the document was released.
	ErrClosed = errors.New("document closed")
)

// IsLoad reports whether any error in err's chain is ErrLoad.
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}

// IsAnchorNotFound reports whether any error in err's chain is ErrAnchorNotFound.
func IsAnchorNotFound(err error) bool {
	return errors.Is(err, ErrAnchorNotFound)
}

// IsNumeralParse reports whether any error in err's chain is ErrNumeralParse.
func IsNumeralParse(err error) bool {
	return errors.Is(err, ErrNumeralParse)
}

// IsGematriaParse reports whether any error in err's chain is ErrGematriaParse.
func IsGematriaParse(err error) bool {
	return errors.Is(err, ErrGematriaParse)
}

// IsClosed reports whether any error in err's chain is ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
