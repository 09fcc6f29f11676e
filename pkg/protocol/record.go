package protocol

import (
	"time"

	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol/header"
)

// Record is a snapshot of every header field. Fields that failed to resolve
// are nil and their errors are listed in Errors.
type Record struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Format string `json:"format" yaml:"format"`

	KnessetNumHeb        *string           `json:"knesset_num_heb" yaml:"knesset_num_heb"`
	KnessetNum           *int              `json:"knesset_num" yaml:"knesset_num"`
	MeetingNumHeb        *string           `json:"meeting_num_heb" yaml:"meeting_num_heb"`
	MeetingNum           *int              `json:"meeting_num" yaml:"meeting_num"`
	BookletNumHeb        *string           `json:"booklet_num_heb" yaml:"booklet_num_heb"`
	BookletNum           *int              `json:"booklet_num" yaml:"booklet_num"`
	BookletMeetingNumHeb *string           `json:"booklet_meeting_num_heb" yaml:"booklet_meeting_num_heb"`
	BookletMeetingNum    *int              `json:"booklet_meeting_num" yaml:"booklet_meeting_num"`
	DateStringHeb        *header.DateParts `json:"date_string_heb" yaml:"date_string_heb"`
	TimeString           *header.TimeParts `json:"time_string" yaml:"time_string"`
	Datetime             *time.Time        `json:"datetime" yaml:"datetime"`

	Errors []FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// FieldError is a field failure in a Record.
type FieldError struct {
	Field   Field              `json:"field" yaml:"field"`
	Code    kperrors.ErrorCode `json:"code" yaml:"code"`
	Message string             `json:"message" yaml:"message"`
}

// Record resolves every field and returns the snapshot. Field failures do
// not fail the call; only a closed document does.
func (d *Document) Record() (*Record, error) {
	if d.closed {
		return nil, kperrors.ErrClosed
	}

	rec := &Record{ID: d.id, Source: d.source, Format: string(d.format)}
	for _, f := range Fields {
		v, err := d.Value(f)
		if err != nil {
			rec.Errors = append(rec.Errors, FieldError{Field: f, Code: kperrors.CodeOf(err), Message: err.Error()})
			continue
		}
		rec.set(f, v)
	}
	return rec, nil
}

func (r *Record) set(f Field, v any) {
	switch val := v.(type) {
	case string:
		switch f {
		case FieldKnessetNumHeb:
			r.KnessetNumHeb = &val
		case FieldMeetingNumHeb:
			r.MeetingNumHeb = &val
		case FieldBookletNumHeb:
			r.BookletNumHeb = &val
		case FieldBookletMeetingNumHeb:
			r.BookletMeetingNumHeb = &val
		}
	case int:
		switch f {
		case FieldKnessetNum:
			r.KnessetNum = &val
		case FieldMeetingNum:
			r.MeetingNum = &val
		case FieldBookletNum:
			r.BookletNum = &val
		case FieldBookletMeetingNum:
			r.BookletMeetingNum = &val
		}
	case header.DateParts:
		r.DateStringHeb = &val
	case header.TimeParts:
		r.TimeString = &val
	case time.Time:
		r.Datetime = &val
	}
}
