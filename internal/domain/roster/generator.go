package roster

const (
	MinHeadcountPerDay = 1
	MaxHeadcountPerDay = 8
)

// Generate distributes people round-robin over Monday..Friday so that each
// day gets exactly headcountPerDay people. Days are filled in order, slots
// within a day in order, consuming people in their given order and wrapping
// around. A person may repeat across days but never within one day.
func Generate(people []string, headcountPerDay int) (Days, error) {
	if headcountPerDay < MinHeadcountPerDay || headcountPerDay > MaxHeadcountPerDay {
		return nil, ErrInvalidHeadcount
	}
	if len(people) == 0 {
		return nil, ErrNoPeople
	}
	if distinct := countDistinct(people); distinct < headcountPerDay {
		return nil, &InsufficientPeopleError{Required: headcountPerDay, Available: distinct}
	}

	days := EmptyDays()
	cursor := 0
	for _, day := range Weekdays {
		assignees := make([]string, 0, headcountPerDay)
		for slot := 0; slot < headcountPerDay; slot++ {
			// With at least headcountPerDay distinct people a free candidate
			// always exists within one full lap.
			for tries := 0; tries < len(people); tries++ {
				candidate := people[cursor%len(people)]
				cursor++
				if !containsID(assignees, candidate) {
					assignees = append(assignees, candidate)
					break
				}
			}
		}
		days[day] = assignees
	}

	return days, nil
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
