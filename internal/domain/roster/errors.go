package roster

import (
	"errors"
	"fmt"
	"strings"
)

// Roster domain errors
var (
	ErrInvariantViolation    = errors.New("a person can only be assigned once per day")
	ErrConflict              = errors.New("person is already assigned on the selected day")
	ErrNoPeople              = errors.New("no people available to build the roster")
	ErrInsufficientPeople    = errors.New("not enough distinct people for the requested headcount")
	ErrInvalidHeadcount      = errors.New("headcount per day must be between 1 and 8")
	ErrInvalidDay            = errors.New("invalid roster day")
	ErrNoDaysSelected        = errors.New("select at least one day")
	ErrRosterVersionConflict = errors.New("roster was changed by someone else, reload before saving")
)

// InvariantViolation reports a duplicate person inside one day.
type InvariantViolation struct {
	Day      Weekday
	PersonID string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s appears twice on %s", ErrInvariantViolation, e.PersonID, e.Day)
}

func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariantViolation
}

// ConflictError lists every requested day the person is already on.
type ConflictError struct {
	PersonID string
	Days     []Weekday
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Days))
	for _, d := range e.Days {
		names = append(names, d.Label())
	}
	return fmt.Sprintf("%s: %s on %s", ErrConflict, e.PersonID, strings.Join(names, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// InsufficientPeopleError is returned when the headcount cannot be met
// without placing someone twice on the same day.
type InsufficientPeopleError struct {
	Required  int
	Available int
}

func (e *InsufficientPeopleError) Error() string {
	return fmt.Sprintf("%s: need %d, have %d", ErrInsufficientPeople, e.Required, e.Available)
}

func (e *InsufficientPeopleError) Is(target error) bool {
	return target == ErrInsufficientPeople
}
