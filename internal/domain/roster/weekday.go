package roster

import (
	"fmt"
	"strings"
)

// Weekday is a duty day. Only Monday to Friday are rostered.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists every rostered day in fill order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = map[Weekday]string{
	Monday:    "senin",
	Tuesday:   "selasa",
	Wednesday: "rabu",
	Thursday:  "kamis",
	Friday:    "jumat",
}

var weekdayLabels = map[Weekday]string{
	Monday:    "Senin",
	Tuesday:   "Selasa",
	Wednesday: "Rabu",
	Thursday:  "Kamis",
	Friday:    "Jumat",
}

// English aliases are accepted on input because older clients sent them.
var weekdayAliases = map[string]Weekday{
	"senin":     Monday,
	"selasa":    Tuesday,
	"rabu":      Wednesday,
	"kamis":     Thursday,
	"jumat":     Friday,
	"jum'at":    Friday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("weekday(%d)", int(d))
}

// Label returns the display name, e.g. "Senin".
func (d Weekday) Label() string {
	return weekdayLabels[d]
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDay
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday accepts Indonesian or English day names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return day, nil
}

// ParseWeekdays parses a comma separated list such as "senin,rabu".
func ParseWeekdays(s string) ([]Weekday, error) {
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
