package attendance

import (
	"time"
)

// State is the stored progress of a duty session.
type State string

const (
	StateNotStarted         State = "not_started"
	StateCheckedIn          State = "checked_in"
	StateChecklistSubmitted State = "checklist_submitted"
	StateCheckedOut         State = "checked_out"
)

// DisplayStatus is what the dashboard shows for a person on a given day.
type DisplayStatus string

const (
	DisplayDone       DisplayStatus = "sudah"
	DisplayInProgress DisplayStatus = "sedang"
	DisplayIncomplete DisplayStatus = "tidak_lengkap"
	DisplayNotStarted DisplayStatus = "belum"
)

type ChecklistStatus string

const (
	ChecklistGood    ChecklistStatus = "baik"
	ChecklistDamaged ChecklistStatus = "rusak"
	ChecklistLost    ChecklistStatus = "hilang"
)

func (s ChecklistStatus) Valid() bool {
	switch s {
	case ChecklistGood, ChecklistDamaged, ChecklistLost:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ChecklistEntry is a snapshot of one inventory item taken at check-in.
// Status stays nil until the member judges the item.
type ChecklistEntry struct {
	InventoryItemID string           `json:"inventory_item_id"`
	Name            string           `json:"name"`
	Code            *string          `json:"code,omitempty"`
	Status          *ChecklistStatus `json:"status"`
}

// Session is one person's duty attendance on one date.
type Session struct {
	ID                 string
	PersonID           string
	Date               time.Time // local calendar date at check-in, midnight
	CheckInTime        time.Time
	CheckOutTime       *time.Time
	Checklist          []ChecklistEntry
	ChecklistSubmitted bool
	Note               *string
	CheckInLocation    Location
	CheckOutLocation   *Location
	CheckInPhotoPath   string
	CheckOutPhotoPath  *string
	ArchivedAt         *time.Time
	FinalStatus        *DisplayStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	PersonName *string
}
