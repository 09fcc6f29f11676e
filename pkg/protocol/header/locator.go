package header

// Span is a value captured after an anchor. Found is false when the anchor
// is missing or is followed by nothing usable.
type Span struct {
	Target Target `json:"target"`
	Anchor string `json:"anchor"`
	Value  string `json:"value,omitempty"`
	Found  bool   `json:"found"`
	// Offset is the byte offset of Value in the text.
	Offset int `json:"offset"`
}

// DateParts is the session date as written: day, month name, year.
type DateParts struct {
	Day   string `json:"day" yaml:"day"`
	Month string `json:"month" yaml:"month"`
	Year  string `json:"year" yaml:"year"`
}

// TimeParts is the session start time as written.
type TimeParts struct {
	Hour   string `json:"hour" yaml:"hour"`
	Minute string `json:"minute" yaml:"minute"`
}

// Locator finds header values in a document's text. Only the first match
// of each anchor is used.
type Locator struct {
	text     string
	patterns *Patterns
}

// NewLocator returns a Locator over text. Nil patterns use Default.
func NewLocator(text string, p *Patterns) *Locator {
	if p == nil {
		p = Default()
	}
	return &Locator{text: text, patterns: p}
}

// Find returns the value following the anchor for t.
func (l *Locator) Find(t Target) Span {
	span := Span{Target: t, Anchor: l.patterns.Anchor(t), Offset: -1}

	re, ok := l.patterns.fields[t]
	if !ok {
		return span
	}
	m := re.FindStringSubmatchIndex(l.text)
	if m == nil || m[2] == m[3] {
		return span
	}
	span.Value = l.text[m[2]:m[3]]
	span.Found = true
	span.Offset = m[2]
	return span
}

// Date returns the session date parts.
func (l *Locator) Date() (DateParts, bool) {
	m := l.patterns.date.FindStringSubmatch(l.text)
	if m == nil {
		return DateParts{}, false
	}
	return DateParts{Day: m[1], Month: m[2], Year: m[3]}, true
}

// Time returns the session time parts.
func (l *Locator) Time() (TimeParts, bool) {
	m := l.patterns.time.FindStringSubmatch(l.text)
	if m == nil {
		return TimeParts{}, false
	}
	return TimeParts{Hour: m[1], Minute: m[2]}, true
}
