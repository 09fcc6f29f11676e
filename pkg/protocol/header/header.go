// Package header locates the labelled values in the opening lines of a
// plenum protocol: the Knesset and meeting numbers, the booklet numbers and
// the session date and time.
package header

import (
	"fmt"
	"regexp"
	"strings"
)

// Target names a raw header value.
type Target string

const (
	TargetKnesset        Target = "knesset_num_heb"
	TargetMeeting        Target = "meeting_num_heb"
	TargetBooklet        Target = "booklet_num_heb"
	TargetBookletMeeting Target = "booklet_meeting_num_heb"
)

// Targets lists the numeral targets in header order.
var Targets = []Target{TargetKnesset, TargetMeeting, TargetBooklet, TargetBookletMeeting}

// Anchors holds the label phrases preceding each header value. A space in a
// phrase matches any run of whitespace.
type Anchors struct {
	Knesset        string `yaml:"knesset,omitempty"`
	Meeting        string `yaml:"meeting,omitempty"`
	Booklet        string `yaml:"booklet,omitempty"`
	BookletMeeting string `yaml:"booklet_meeting,omitempty"`
	Time           string `yaml:"time,omitempty"`

	// DatePattern is a regular expression with day, month and year groups.
	DatePattern string `yaml:"date_pattern,omitempty"`
}

// DefaultAnchors returns the plenum protocol labels, as in
// "הישיבה המאתיים-ותשע-עשרה של הכנסת העשרים ... חוברת כ"א ישיבה רי"ט".
func DefaultAnchors() Anchors {
	return Anchors{
		Knesset:        "הכנסת ה",
		Meeting:        "הישיבה ה",
		Booklet:        "חוברת ",
		BookletMeeting: "ישיבה ",
		Time:           "שעה ",
		DatePattern:    `\((\d{1,2})\s+ב?-?(\p{Hebrew}+)\s+(\d{4})\)`,
	}
}

// merge fills unset anchors from def.
func (a Anchors) merge(def Anchors) Anchors {
	if a.Knesset == "" {
		a.Knesset = def.Knesset
	}
	if a.Meeting == "" {
		a.Meeting = def.Meeting
	}
	if a.Booklet == "" {
		a.Booklet = def.Booklet
	}
	if a.BookletMeeting == "" {
		a.BookletMeeting = def.BookletMeeting
	}
	if a.Time == "" {
		a.Time = def.Time
	}
	if a.DatePattern == "" {
		a.DatePattern = def.DatePattern
	}
	return a
}

// value runs stop at whitespace and at these terminators
const valueRun = `([^\s,.;:()]*)`

// an anchor must not continue a preceding word ("הישיבה" is not "ישיבה")
const wordStart = `(?:^|[^\p{L}])`

// Patterns are compiled Anchors.
type Patterns struct {
	anchors Anchors
	fields  map[Target]*regexp.Regexp
	date    *regexp.Regexp
	time    *regexp.Regexp
}

// Compile builds Patterns from a; unset anchors take their defaults.
func Compile(a Anchors) (*Patterns, error) {
	a = a.merge(DefaultAnchors())

	p := &Patterns{anchors: a, fields: make(map[Target]*regexp.Regexp, len(Targets))}
	for t, phrase := range map[Target]string{
		TargetKnesset:        a.Knesset,
		TargetMeeting:        a.Meeting,
		TargetBooklet:        a.Booklet,
		TargetBookletMeeting: a.BookletMeeting,
	} {
		re, err := regexp.Compile(wordStart + phrasePattern(phrase) + valueRun)
		if err != nil {
			return nil, fmt.Errorf("compiling %s anchor: %w", t, err)
		}
		p.fields[t] = re
	}

	date, err := regexp.Compile(a.DatePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling date pattern: %w", err)
	}
	if date.NumSubexp() != 3 {
		return nil, fmt.Errorf("date pattern needs 3 groups, has %d", date.NumSubexp())
	}
	p.date = date

	p.time, err = regexp.Compile(wordStart + phrasePattern(a.Time) + `(\d{1,2}):(\d{2})`)
	if err != nil {
		return nil, fmt.Errorf("compiling time anchor: %w", err)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(a Anchors) *Patterns {
	p, err := Compile(a)
	if err != nil {
		panic(err)
	}
	return p
}

var defaultPatterns = MustCompile(DefaultAnchors())

// Default returns the compiled default anchors.
func Default() *Patterns {
	return defaultPatterns
}

// Anchor returns the label phrase for t.
func (p *Patterns) Anchor(t Target) string {
	switch t {
	case TargetKnesset:
		return strings.TrimSpace(p.anchors.Knesset)
	case TargetMeeting:
		return strings.TrimSpace(p.anchors.Meeting)
	case TargetBooklet:
		return strings.TrimSpace(p.anchors.Booklet)
	case TargetBookletMeeting:
		return strings.TrimSpace(p.anchors.BookletMeeting)
	}
	return ""
}

func phrasePattern(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	pat := strings.Join(words, `\s+`)
	if strings.HasSuffix(phrase, " ") {
		pat += `\s+`
	}
	return pat
}
