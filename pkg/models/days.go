package models

import "strings"

// Weekday is a lowercase three-letter day code
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Week lists every day in week order
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Workweek is the default day set of a new time restriction
var Workweek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Valid reports whether d is one of the seven day codes
func (d Weekday) Valid() bool {
	return d.index() >= 0
}

// Label returns the capitalized abbreviation ("Mon")
func (d Weekday) Label() string {
	if !d.Valid() {
		return string(d)
	}
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d Weekday) index() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

// FormatDays renders a day set for display:
// all seven days give "Every day", exactly Monday-Friday gives "Weekdays",
// exactly Saturday and Sunday give "Weekend", anything else is a comma list in week order.
func FormatDays(days []Weekday) string {
	var present [7]bool
	count := 0
	for _, d := range days {
		if i := d.index(); i >= 0 && !present[i] {
			present[i] = true
			count++
		}
	}

	switch {
	case count == 0:
		return "No days selected"
	case count == 7:
		return "Every day"
	case count == 5 && !present[5] && !present[6]:
		return "Weekdays"
	case count == 2 && present[5] && present[6]:
		return "Weekend"
	}

	labels := make([]string, 0, count)
	for i, d := range Week {
		if present[i] {
			labels = append(labels, d.Label())
		}
	}
	return strings.Join(labels, ", ")
}
