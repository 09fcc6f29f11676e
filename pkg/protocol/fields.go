package protocol

import (
	"fmt"

	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol/header"
)

// Field names a header field of a protocol document.
type Field string

const (
	FieldKnessetNumHeb        Field = Field(header.TargetKnesset)
	FieldKnessetNum           Field = "knesset_num"
	FieldMeetingNumHeb        Field = Field(header.TargetMeeting)
	FieldMeetingNum           Field = "meeting_num"
	FieldBookletNumHeb        Field = Field(header.TargetBooklet)
	FieldBookletNum           Field = "booklet_num"
	FieldBookletMeetingNumHeb Field = Field(header.TargetBookletMeeting)
	FieldBookletMeetingNum    Field = "booklet_meeting_num"
	FieldDateStringHeb        Field = "date_string_heb"
	FieldTimeString           Field = "time_string"
	FieldDatetime             Field = "datetime"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldKnessetNumHeb,
	FieldKnessetNum,
	FieldMeetingNumHeb,
	FieldMeetingNum,
	FieldBookletNumHeb,
	FieldBookletNum,
	FieldBookletMeetingNumHeb,
	FieldBookletMeetingNum,
	FieldDateStringHeb,
	FieldTimeString,
	FieldDatetime,
}

// ParseField returns the Field named s.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// rawField describes where a textual numeral is found and how it is written.
type rawField struct {
	target header.Target
	kind   numerals.Kind
}

var rawFields = map[Field]rawField{
	FieldKnessetNumHeb:        {header.TargetKnesset, numerals.KindWord},
	FieldMeetingNumHeb:        {header.TargetMeeting, numerals.KindWord},
	FieldBookletNumHeb:        {header.TargetBooklet, numerals.KindLetter},
	FieldBookletMeetingNumHeb: {header.TargetBookletMeeting, numerals.KindLetter},
}

// derivedFrom maps each numeric field to the textual field it is decoded from.
var derivedFrom = map[Field]Field{
	FieldKnessetNum:        FieldKnessetNumHeb,
	FieldMeetingNum:        FieldMeetingNumHeb,
	FieldBookletNum:        FieldBookletNumHeb,
	FieldBookletMeetingNum: FieldBookletMeetingNumHeb,
}
