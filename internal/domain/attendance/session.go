package attendance

import (
	"fmt"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
)

// MinSessionDuration is the default time a member must stay before checking out.
const MinSessionDuration = 120 * time.Minute

// LocalDate truncates t to midnight of its calendar day in loc.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// NewSession opens a session at now and snapshots the current inventory.
func NewSession(personID string, now time.Time, loc *time.Location, items []inventory.Item, location Location, photoPath string) Session {
	return Session{
		PersonID:         personID,
		Date:             LocalDate(now, loc),
		CheckInTime:      now,
		Checklist:        BuildSnapshot(items),
		CheckInLocation:  location,
		CheckInPhotoPath: photoPath,
	}
}

// State is safe on a nil session, which is a person who has not checked in.
func (s *Session) State() State {
	switch {
	case s == nil:
		return StateNotStarted
	case s.CheckOutTime != nil:
		return StateCheckedOut
	case s.ChecklistSubmitted:
		return StateChecklistSubmitted
	default:
		return StateCheckedIn
	}
}

// Cutoff is the midnight that follows the check-in, in loc.
func (s *Session) Cutoff(loc *time.Location) time.Time {
	return LocalDate(s.CheckInTime, loc).AddDate(0, 0, 1)
}

// IsIncomplete reports whether the session crossed its cutoff without a check-out.
func (s *Session) IsIncomplete(now time.Time, loc *time.Location) bool {
	return s.CheckOutTime == nil && !now.Before(s.Cutoff(loc))
}

func (s *Session) DisplayStatus(now time.Time, loc *time.Location) DisplayStatus {
	if s.FinalStatus != nil {
		return *s.FinalStatus
	}
	switch {
	case s.CheckOutTime != nil:
		return DisplayDone
	case s.IsIncomplete(now, loc):
		return DisplayIncomplete
	default:
		return DisplayInProgress
	}
}

// StatusFor is DisplayStatus that also covers a person with no session.
func StatusFor(s *Session, now time.Time, loc *time.Location) DisplayStatus {
	if s.State() == StateNotStarted {
		return DisplayNotStarted
	}
	return s.DisplayStatus(now, loc)
}

// ElapsedMinutes is the number of whole minutes since check-in.
func (s *Session) ElapsedMinutes(now time.Time) int {
	return int(now.Sub(s.CheckInTime) / time.Minute)
}

// SubmitChecklist applies statuses, keyed by inventory item ID, onto the
// snapshot. The session only changes when every entry ends up with a status.
func (s *Session) SubmitChecklist(statuses map[string]ChecklistStatus, note *string, now time.Time, loc *time.Location) error {
	switch {
	case s.CheckOutTime != nil:
		return ErrAlreadyCheckedOut
	case s.IsIncomplete(now, loc):
		return ErrSessionExpired
	case s.ChecklistSubmitted:
		return ErrChecklistAlreadySubmitted
	}

	known := make(map[string]struct{}, len(s.Checklist))
	for _, entry := range s.Checklist {
		known[entry.InventoryItemID] = struct{}{}
	}
	for id, status := range statuses {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownChecklistItem, id)
		}
		if !status.Valid() {
			return fmt.Errorf("invalid checklist status %q for item %s", status, id)
		}
	}

	filled := make([]ChecklistEntry, len(s.Checklist))
	for i, entry := range s.Checklist {
		filled[i] = entry
		if status, ok := statuses[entry.InventoryItemID]; ok {
			st := status
			filled[i].Status = &st
		}
	}
	if !AllFilled(filled) {
		return &IncompleteChecklistError{Missing: MissingItems(filled)}
	}

	s.Checklist = filled
	s.ChecklistSubmitted = true
	s.Note = note
	return nil
}

// CheckOutEligibility returns nil when the session may be closed at now.
func (s *Session) CheckOutEligibility(now time.Time, loc *time.Location, minDuration time.Duration) error {
	switch {
	case s.CheckOutTime != nil:
		return ErrAlreadyCheckedOut
	case s.IsIncomplete(now, loc):
		return ErrSessionExpired
	case !s.ChecklistSubmitted:
		return &NotEligibleError{Reason: ReasonChecklistPending}
	}

	required := int(minDuration / time.Minute)
	if elapsed := s.ElapsedMinutes(now); elapsed < required {
		return &NotEligibleError{Reason: ReasonDurationNotMet, MinutesRemaining: required - elapsed}
	}
	return nil
}

// CheckOut closes the session.
func (s *Session) CheckOut(now time.Time, loc *time.Location, minDuration time.Duration, location Location, photoPath string) error {
	if err := s.CheckOutEligibility(now, loc, minDuration); err != nil {
		return err
	}
	s.CheckOutTime = &now
	s.CheckOutLocation = &location
	s.CheckOutPhotoPath = &photoPath
	return nil
}
