package roster

// Editor layers user-facing checks over a Store.
type Editor struct {
	store *Store
}

func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// AddPersonToDays checks every requested day first so the caller can report
// all conflicts at once, then hands the write to the store.
func (e *Editor) AddPersonToDays(personID string, days []Weekday) error {
	days = uniqueDays(days)
	if len(days) == 0 {
		return ErrNoDaysSelected
	}

	var conflicts []Weekday
	for _, day := range days {
		if !day.Valid() {
			return ErrInvalidDay
		}
		for _, id := range e.store.Day(day) {
			if id == personID {
				conflicts = append(conflicts, day)
				break
			}
		}
	}
	if len(conflicts) > 0 {
		return &ConflictError{PersonID: personID, Days: conflicts}
	}

	return e.store.AddPerson(personID, days)
}

// UnassignedPeople returns the people who are on no day at all, keeping the
// order of allPeople.
func UnassignedPeople(allPeople []string, days Days) []string {
	assigned := days.AssignmentCounts()
	out := make([]string, 0)
	for _, id := range allPeople {
		if assigned[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// AvailableForDays returns the people who are on none of the requested days,
// keeping the order of allPeople. With no days requested everyone is available.
func AvailableForDays(allPeople []string, days Days, requested []Weekday) []string {
	out := make([]string, 0)
	for _, id := range allPeople {
		free := true
		for _, day := range requested {
			if days.Contains(day, id) {
				free = false
				break
			}
		}
		if free {
			out = append(out, id)
		}
	}
	return out
}
