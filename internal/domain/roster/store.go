package roster

// Store holds the working copy of the weekly roster and guards the
// one-person-once-per-day invariant on every mutation. A Store is not safe
// for concurrent use; callers serialize access.
type Store struct {
	days    Days
	version int64
	saved   bool
}

// NewStore returns a store with all five weekdays empty.
func NewStore() *Store {
	return &Store{days: EmptyDays()}
}

// Day returns a copy of the assignees for day, empty if none.
func (s *Store) Day(day Weekday) []string {
	return append([]string{}, s.days[day]...)
}

// Snapshot returns a deep copy of the current roster.
func (s *Store) Snapshot() Roster {
	return Roster{Days: s.days.Clone(), Version: s.version}
}

// ReplaceAll swaps the whole roster. Nothing changes when any day holds a
// duplicate or an unknown weekday key.
func (s *Store) ReplaceAll(days Days) error {
	for day, assignees := range days {
		if !day.Valid() {
			return ErrInvalidDay
		}
		seen := make(map[string]struct{}, len(assignees))
		for _, id := range assignees {
			if _, dup := seen[id]; dup {
				return &InvariantViolation{Day: day, PersonID: id}
			}
			seen[id] = struct{}{}
		}
	}

	next := days.Clone()
	if !equalDays(s.days, next) {
		s.saved = false
	}
	s.days = next
	return nil
}

// AddPerson appends personID to every listed day. If the person is already on
// any of them the store is left untouched and a ConflictError names the days.
func (s *Store) AddPerson(personID string, days []Weekday) error {
	if len(days) == 0 {
		return ErrNoDaysSelected
	}

	var conflicts []Weekday
	for _, day := range days {
		if !day.Valid() {
			return ErrInvalidDay
		}
		if s.days.Contains(day, personID) {
			conflicts = append(conflicts, day)
		}
	}
	if len(conflicts) > 0 {
		return &ConflictError{PersonID: personID, Days: conflicts}
	}

	for _, day := range uniqueDays(days) {
		s.days[day] = append(s.days[day], personID)
	}
	s.saved = false
	return nil
}

// RemovePerson drops personID from day. Absent people are ignored.
func (s *Store) RemovePerson(day Weekday, personID string) {
	assignees := s.days[day]
	for i, id := range assignees {
		if id == personID {
			s.days[day] = append(assignees[:i:i], assignees[i+1:]...)
			s.saved = false
			return
		}
	}
}

// AssignmentCounts counts weekly occurrences per person.
func (s *Store) AssignmentCounts() map[string]int {
	return s.days.AssignmentCounts()
}

// IsSaved reports whether the working copy matches the last persisted state.
func (s *Store) IsSaved() bool {
	return s.saved
}

// MarkSaved records a successful load or save at the given version.
func (s *Store) MarkSaved(version int64) {
	s.version = version
	s.saved = true
}

// Version is the repository version the working copy was based on.
func (s *Store) Version() int64 {
	return s.version
}

func uniqueDays(days []Weekday) []Weekday {
	seen := make(map[Weekday]struct{}, len(days))
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func equalDays(a, b Days) bool {
	for _, day := range Weekdays {
		if len(a[day]) != len(b[day]) {
			return false
		}
		for i := range a[day] {
			if a[day][i] != b[day][i] {
				return false
			}
		}
	}
	return true
}
