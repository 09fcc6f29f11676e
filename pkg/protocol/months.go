package protocol

import "time"

// Months maps Hebrew month names to calendar months. March is spelled both
// מרס and מרץ in protocols.
var Months = map[string]time.Month{
	"ינואר":   time.January,
	"פברואר":  time.February,
	"מרס":     time.March,
	"מרץ":     time.March,
	"אפריל":   time.April,
	"מאי":     time.May,
	"יוני":    time.June,
	"יולי":    time.July,
	"אוגוסט":  time.August,
	"ספטמבר":  time.September,
	"אוקטובר": time.October,
	"נובמבר":  time.November,
	"דצמבר":   time.December,
}

// MonthFromHebrew returns the month named name.
func MonthFromHebrew(name string) (time.Month, bool) {
	m, ok := Months[name]
	return m, ok
}
