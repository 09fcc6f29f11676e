package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a header parsing failure.
type ErrorCode string

const (
	CodeLoadError      ErrorCode = "load_error"
	CodeAnchorNotFound ErrorCode = "anchor_not_found"
	CodeNumeralParse   ErrorCode = "numeral_parse_error"
	CodeGematriaParse  ErrorCode = "gematria_parse_error"
	CodeClosed         ErrorCode = "closed"
)

// sentinel maps a code to the kind it satisfies through errors.Is.
var sentinel = map[ErrorCode]error{
	CodeLoadError:      ErrLoad,
	CodeAnchorNotFound: ErrAnchorNotFound,
	CodeNumeralParse:   ErrNumeralParse,
	CodeGematriaParse:  ErrGematriaParse,
	CodeClosed:         ErrClosed,
}

// ParseError is a structured error for a single field or token.
type ParseError struct {
	Code    ErrorCode
	Field   string
	Token   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Token != "" {
		msg = fmt.Sprintf("%s (token %q)", msg, e.Token)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's code. A gematria failure also
// matches ErrNumeralParse.
func (e *ParseError) Is(target error) bool {
	if target == sentinel[e.Code] {
		return true
	}
	return target == ErrNumeralParse && e.Code == CodeGematriaParse
}

// NewNumeralError returns a numeral parse error for token.
func NewNumeralError(token, format string, args ...any) *ParseError {
	return &ParseError{Code: CodeNumeralParse, Token: token, Message: fmt.Sprintf(format, args...)}
}

// NewGematriaError returns a gematria parse error for token.
func NewGematriaError(token, format string, args ...any) *ParseError {
	return &ParseError{Code: CodeGematriaParse, Token: token, Message: fmt.Sprintf(format, args...)}
}

// NewAnchorNotFound reports that the label for field is absent from the text.
func NewAnchorNotFound(field, anchor string) *ParseError {
	return &ParseError{Code: CodeAnchorNotFound, Field: field, Message: fmt.Sprintf("no match for %q", anchor)}
}

// ForField attaches a field name to err. Parse errors are copied so a
// decoder's error value is never mutated; other errors are wrapped as
// numeral parse errors.
func ForField(err error, field string) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		cp := *pe
		cp.Field = field
		return &cp
	}
	return &ParseError{Code: CodeNumeralParse, Field: field, Message: "cannot resolve", Cause: err}
}

// LoadError reports that a document source could not be converted to text.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", CodeLoadError, e.Source, e.Cause)
	}
	return fmt.Sprintf("%s: %s", CodeLoadError, e.Source)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is matches ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// NewLoadError wraps cause as a LoadError for source.
func NewLoadError(source string, cause error) *LoadError {
	return &LoadError{Source: source, Cause: cause}
}

// CodeOf returns the code of the first coded error in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	var le *LoadError
	if errors.As(err, &le) {
		return CodeLoadError
	}
	if errors.Is(err, ErrClosed) {
		return CodeClosed
	}
	return ""
}
