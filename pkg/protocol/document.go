// Package protocol reads the header of a Knesset plenum protocol. A Document
// is opened from a file or an in-memory buffer, and each header field is
// extracted and decoded the first time it is asked for.
//
// Typical usage:
//
//	err := protocol.With(ctx, protocol.FromPath("20_ptm_381742.doc"), protocol.Options{},
//		func(doc *protocol.Document) error {
//			n, err := doc.KnessetNum()
//			...
//		})
//
// A Document is not safe for concurrent use. Distinct documents may be used
// from different goroutines.
package protocol

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/otherjamesbrown/kprot-cli/pkg/contentid"
	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol/header"
	"github.com/otherjamesbrown/kprot-cli/pkg/textextract"
)

// Options configures how a Document is opened. The zero value uses the
// built-in extractors, the default numeral decoder, the plenum anchors and UTC.
type Options struct {
	Extractor textextract.Extractor
	Decoder   numerals.Decoder
	Anchors   header.Anchors
	Location  *time.Location
	Logger    logging.Logger
	Metrics   *Metrics
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.Extractor == nil {
		o.Extractor = textextract.NewRegistry(textextract.WithLogger(o.Logger))
	}
	if o.Decoder == nil {
		o.Decoder = numerals.NewDecoder(nil)
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

func (o Options) patterns() (*header.Patterns, error) {
	if o.Anchors == (header.Anchors{}) {
		return header.Default(), nil
	}
	return header.Compile(o.Anchors)
}

// Source is where a document's bytes come from.
type Source struct {
	Path string
	Data []byte
}

// FromPath returns a Source reading the file at path.
func FromPath(path string) Source {
	return Source{Path: path}
}

// FromBytes returns a Source over an in-memory document.
func FromBytes(data []byte) Source {
	return Source{Data: data}
}

// Open opens the document described by s.
func (s Source) Open(ctx context.Context, opts Options) (*Document, error) {
	if s.Path != "" {
		return OpenFromPath(ctx, s.Path, opts)
	}
	return OpenFromBytes(ctx, s.Data, opts)
}

// Document is an opened protocol. Field accessors return ErrClosed once
// Close has been called.
type Document struct {
	id      string
	source  string
	format  textextract.Format
	text    string
	handle  *textextract.Handle
	locator *header.Locator
	decoder numerals.Decoder
	loc     *time.Location
	res     *resolver
	logger  logging.Logger
	closed  bool
}

// OpenFromPath opens the protocol file at path. Any failure to read or
// convert it is returned as a *errors.LoadError and no Document is returned.
func OpenFromPath(ctx context.Context, path string, opts Options) (*Document, error) {
	return open(contentid.SourceFile, path, opts, func(e textextract.Extractor) (*textextract.Handle, error) {
		return e.ExtractFile(ctx, path)
	})
}

// OpenFromBytes opens a protocol held in memory. Failures are reported as
// with OpenFromPath.
func OpenFromBytes(ctx context.Context, data []byte, opts Options) (*Document, error) {
	label := fmt.Sprintf("buffer (%d bytes)", len(data))
	return open(contentid.SourceBuffer, label, opts, func(e textextract.Extractor) (*textextract.Handle, error) {
		return e.ExtractBytes(ctx, data)
	})
}

// With opens src, calls fn with the document and closes it afterwards,
// including when fn panics. A close failure is returned only if fn succeeded.
func With(ctx context.Context, src Source, opts Options, fn func(*Document) error) (err error) {
	doc, err := src.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(doc)
}

func open(idSource, label string, opts Options, extract func(textextract.Extractor) (*textextract.Handle, error)) (*Document, error) {
	opts = opts.withDefaults()

	patterns, err := opts.patterns()
	if err != nil {
		return nil, fmt.Errorf("anchors: %w", err)
	}

	h, err := extract(opts.Extractor)
	if err != nil {
		opts.Metrics.documentOpened("unknown", "error")
		opts.Logger.Debug("Failed to load protocol", logging.F("source", label), logging.Err(err))
		return nil, kperrors.NewLoadError(label, err)
	}

	id := contentid.New(idSource)
	logger := opts.Logger.With(logging.F("doc_id", id))
	text := header.Normalize(h.Text)

	doc := &Document{
		id:      id,
		source:  label,
		format:  h.Format,
		text:    text,
		handle:  h,
		locator: header.NewLocator(text, patterns),
		decoder: opts.Decoder,
		loc:     opts.Location,
		res:     newResolver(opts.Metrics, logger),
		logger:  logger,
	}
	opts.Metrics.documentOpened(string(h.Format), outcomeOK)
	logger.Debug("Opened protocol",
		logging.F("source", label),
		logging.F("format", string(h.Format)),
		logging.F("chars", len(text)))
	return doc, nil
}

// Close releases resources held by the document. It is safe to call more
// than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.res.reset()
	d.logger.Debug("Closed protocol")
	if err := d.handle.Close(); err != nil {
		d.logger.Warn("Failed to release extracted text", logging.Err(err))
		return fmt.Errorf("closing %s: %w", d.source, err)
	}
	return nil
}

// ID returns the identifier assigned when the document was opened.
func (d *Document) ID() string { return d.id }

// Source describes where the document was read from.
func (d *Document) Source() string { return d.source }

// Format returns the container format the text was extracted from.
func (d *Document) Format() textextract.Format { return d.format }

// Text returns the normalised document text.
func (d *Document) Text() string { return d.text }

// KnessetNumHeb returns the Knesset number as written. An absent anchor
// yields a Numeral with Present set to false.
func (d *Document) KnessetNumHeb() (numerals.Numeral, error) { return d.token(FieldKnessetNumHeb) }

// KnessetNum returns the decoded Knesset number.
func (d *Document) KnessetNum() (int, error) { return d.number(FieldKnessetNum) }

// MeetingNumHeb returns the meeting number as written.
func (d *Document) MeetingNumHeb() (numerals.Numeral, error) { return d.token(FieldMeetingNumHeb) }

// MeetingNum returns the decoded meeting number.
func (d *Document) MeetingNum() (int, error) { return d.number(FieldMeetingNum) }

// BookletNumHeb returns the booklet number as written.
func (d *Document) BookletNumHeb() (numerals.Numeral, error) { return d.token(FieldBookletNumHeb) }

// BookletNum returns the decoded booklet number.
func (d *Document) BookletNum() (int, error) { return d.number(FieldBookletNum) }

// BookletMeetingNumHeb returns the meeting number within the booklet as written.
func (d *Document) BookletMeetingNumHeb() (numerals.Numeral, error) {
	return d.token(FieldBookletMeetingNumHeb)
}

// BookletMeetingNum returns the decoded meeting number within the booklet.
func (d *Document) BookletMeetingNum() (int, error) { return d.number(FieldBookletMeetingNum) }

// DateStringHeb returns the session date as written.
func (d *Document) DateStringHeb() (header.DateParts, error) {
	if d.closed {
		return header.DateParts{}, kperrors.ErrClosed
	}
	res := d.res.resolve(FieldDateStringHeb, func() (any, error) {
		date, ok := d.locator.Date()
		if !ok {
			return header.DateParts{}, kperrors.NewAnchorNotFound("", "(<day> ב<month> <year>)")
		}
		return date, nil
	})
	return res.Value.(header.DateParts), res.Err
}

// TimeString returns the session start time as written.
func (d *Document) TimeString() (header.TimeParts, error) {
	if d.closed {
		return header.TimeParts{}, kperrors.ErrClosed
	}
	res := d.res.resolve(FieldTimeString, func() (any, error) {
		tm, ok := d.locator.Time()
		if !ok {
			return header.TimeParts{}, kperrors.NewAnchorNotFound("", "שעה <hh>:<mm>")
		}
		return tm, nil
	})
	return res.Value.(header.TimeParts), res.Err
}

// Datetime composes DateStringHeb and TimeString into a time in the
// configured location.
func (d *Document) Datetime() (time.Time, error) {
	if d.closed {
		return time.Time{}, kperrors.ErrClosed
	}
	res := d.res.resolve(FieldDatetime, func() (any, error) {
		date, err := d.DateStringHeb()
		if err != nil {
			return time.Time{}, &kperrors.ParseError{Code: kperrors.CodeNumeralParse, Message: "date unavailable", Cause: err}
		}
		tm, err := d.TimeString()
		if err != nil {
			return time.Time{}, &kperrors.ParseError{Code: kperrors.CodeNumeralParse, Message: "time unavailable", Cause: err}
		}
		return composeDatetime(date, tm, d.loc)
	})
	return res.Value.(time.Time), res.Err
}

// Value returns field f in its plain form: a string for textual numerals
// (nil when absent), an int for numbers, DateParts, TimeParts or time.Time.
func (d *Document) Value(f Field) (any, error) {
	if _, ok := rawFields[f]; ok {
		n, err := d.token(f)
		if err != nil || !n.Present {
			return nil, err
		}
		return n.Text, nil
	}
	if _, ok := derivedFrom[f]; ok {
		return d.number(f)
	}
	switch f {
	case FieldDateStringHeb:
		return d.DateStringHeb()
	case FieldTimeString:
		return d.TimeString()
	case FieldDatetime:
		return d.Datetime()
	}
	return nil, fmt.Errorf("unknown field %q", f)
}

func (d *Document) token(f Field) (numerals.Numeral, error) {
	if d.closed {
		return numerals.Numeral{}, kperrors.ErrClosed
	}
	raw := rawFields[f]
	res := d.res.resolve(f, func() (any, error) {
		span := d.locator.Find(raw.target)
		if !span.Found {
			return numerals.Absent(raw.kind, span.Anchor), nil
		}
		return numerals.Numeral{Kind: raw.kind, Text: span.Value, Present: true, Anchor: span.Anchor}, nil
	})
	return res.Value.(numerals.Numeral), res.Err
}

func (d *Document) number(f Field) (int, error) {
	if d.closed {
		return 0, kperrors.ErrClosed
	}
	res := d.res.resolve(f, func() (any, error) {
		n, err := d.token(derivedFrom[f])
		if err != nil {
			return 0, err
		}
		return d.decoder.Decode(n)
	})
	return res.Value.(int), res.Err
}

func composeDatetime(date header.DateParts, tm header.TimeParts, loc *time.Location) (time.Time, error) {
	month, ok := MonthFromHebrew(date.Month)
	if !ok {
		return time.Time{}, kperrors.NewNumeralError(date.Month, "unknown month name")
	}
	day, err := atoiRange(date.Day, 1, 31, "day")
	if err != nil {
		return time.Time{}, err
	}
	year, err := atoiRange(date.Year, 1, 9999, "year")
	if err != nil {
		return time.Time{}, err
	}
	hour, err := atoiRange(tm.Hour, 0, 23, "hour")
	if err != nil {
		return time.Time{}, err
	}
	minute, err := atoiRange(tm.Minute, 0, 59, "minute")
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Day() != day {
		return time.Time{}, kperrors.NewNumeralError(date.Day, "day out of range for %s %d", month, year)
	}
	return t, nil
}

func atoiRange(s string, lo, hi int, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, kperrors.NewNumeralError(s, "%s is not a number", what)
	}
	if n < lo || n > hi {
		return 0, kperrors.NewNumeralError(s, "%s out of range %d-%d", what, lo, hi)
	}
	return n, nil
}
