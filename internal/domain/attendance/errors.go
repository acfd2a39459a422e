package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrDuplicateCheckIn = errors.New("you already have an open duty session today")

	// Checklist errors
	ErrIncompleteChecklist       = errors.New("every checklist item needs a status")
	ErrUnknownChecklistItem      = errors.New("checklist item is not part of this session")
	ErrChecklistAlreadySubmitted = errors.New("checklist has already been submitted")

	// Check-out errors
	ErrNotEligible       = errors.New("not eligible to check out yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrSessionExpired    = errors.New("session passed midnight without check-out and is incomplete")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
	ErrSessionNotOwned = errors.New("attendance session belongs to someone else")
)

// EligibilityReason explains why a check-out was refused.
type EligibilityReason string

const (
	ReasonChecklistPending EligibilityReason = "checklist_pending"
	ReasonDurationNotMet   EligibilityReason = "duration_not_met"
)

type NotEligibleError struct {
	Reason           EligibilityReason
	MinutesRemaining int
}

func (e *NotEligibleError) Error() string {
	switch e.Reason {
	case ReasonChecklistPending:
		return fmt.Sprintf("%s: submit the inventory checklist first", ErrNotEligible)
	case ReasonDurationNotMet:
		return fmt.Sprintf("%s: %d minute(s) remaining", ErrNotEligible, e.MinutesRemaining)
	}
	return ErrNotEligible.Error()
}

func (e *NotEligibleError) Is(target error) bool {
	return target == ErrNotEligible
}

// IncompleteChecklistError names the items still missing a status.
type IncompleteChecklistError struct {
	Missing []string
}

func (e *IncompleteChecklistError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncompleteChecklist, strings.Join(e.Missing, ", "))
}

func (e *IncompleteChecklistError) Is(target error) bool {
	return target == ErrIncompleteChecklist
}
