package roster

import "time"

// Days maps each weekday to its ordered assignees (person IDs).
type Days map[Weekday][]string

// Roster is the persisted weekly duty schedule.
type Roster struct {
	Days      Days
	Version   int64
	UpdatedAt *time.Time
}

// EmptyDays returns a Days value with all five weekdays present and empty.
func EmptyDays() Days {
	days := make(Days, len(Weekdays))
	for _, d := range Weekdays {
		days[d] = []string{}
	}
	return days
}

// Clone deep-copies d and fills in any missing weekday.
func (d Days) Clone() Days {
	out := EmptyDays()
	for day, assignees := range d {
		out[day] = append([]string{}, assignees...)
	}
	return out
}

// Contains reports whether personID is assigned on day.
func (d Days) Contains(day Weekday, personID string) bool {
	for _, id := range d[day] {
		if id == personID {
			return true
		}
	}
	return false
}

// AssignmentCounts counts how many days each person is on across the week.
func (d Days) AssignmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, day := range Weekdays {
		for _, id := range d[day] {
			counts[id]++
		}
	}
	return counts
}
