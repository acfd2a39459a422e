package attendance

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

const maxProofPhotoSize = 10 << 20 // 10MB

type CheckInRequest struct {
	PersonID   string                `json:"-"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}
	errs = append(errs, validateLocation(r.Latitude, r.Longitude)...)
	errs = append(errs, validateProofPhoto(r.File, r.FileHeader)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	SessionID  string                `json:"-"`
	PersonID   string                `json:"-"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}
	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}
	errs = append(errs, validateLocation(r.Latitude, r.Longitude)...)
	errs = append(errs, validateProofPhoto(r.File, r.FileHeader)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLocation(lat, lon float64) validator.ValidationErrors {
	if validator.IsValidCoordinate(lat, lon) {
		return nil
	}

	var errs validator.ValidationErrors
	if lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lon < -180 || lon > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

func validateProofPhoto(file io.Reader, header *multipart.FileHeader) validator.ValidationErrors {
	if file == nil || header == nil {
		return validator.ValidationErrors{{
			Field:   "photo",
			Message: "attendance proof photo is required",
		}}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return validator.ValidationErrors{{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		}}
	}
	if header.Size > maxProofPhotoSize {
		return validator.ValidationErrors{{
			Field:   "photo",
			Message: "attendance proof photo size must not exceed 10MB",
		}}
	}
	return nil
}

type ChecklistEntryRequest struct {
	InventoryItemID string  `json:"inventory_item_id" validate:"required"`
	Status          *string `json:"status" validate:"omitempty,oneof=baik rusak hilang"`
}

type SubmitChecklistRequest struct {
	SessionID string                  `json:"-"`
	PersonID  string                  `json:"-"`
	Entries   []ChecklistEntryRequest `json:"entries" validate:"dive"`
	Note      *string                 `json:"note" validate:"omitempty,max=500"`
}

func (r *SubmitChecklistRequest) Validate() error {
	if r.Note != nil {
		note := strings.TrimSpace(*r.Note)
		r.Note = &note
		if note == "" {
			r.Note = nil
		}
	}
	return validator.Struct(r)
}

// Statuses indexes the submitted statuses by inventory item ID, skipping
// entries left blank.
func (r *SubmitChecklistRequest) Statuses() map[string]ChecklistStatus {
	statuses := make(map[string]ChecklistStatus, len(r.Entries))
	for _, entry := range r.Entries {
		if entry.Status == nil {
			continue
		}
		statuses[entry.InventoryItemID] = ChecklistStatus(*entry.Status)
	}
	return statuses
}

type SessionResponse struct {
	ID                 string           `json:"id"`
	PersonID           string           `json:"person_id"`
	PersonName         string           `json:"person_name,omitempty"`
	Date               string           `json:"date"`
	State              State            `json:"state"`
	DisplayStatus      DisplayStatus    `json:"display_status"`
	CheckInTime        string           `json:"check_in_time"`
	CheckOutTime       *string          `json:"check_out_time,omitempty"`
	CheckInLocation    Location         `json:"check_in_location"`
	CheckOutLocation   *Location        `json:"check_out_location,omitempty"`
	CheckInPhotoURL    string           `json:"check_in_photo_url"`
	CheckOutPhotoURL   *string          `json:"check_out_photo_url,omitempty"`
	Checklist          []ChecklistEntry `json:"checklist"`
	ChecklistSubmitted bool             `json:"checklist_submitted"`
	ChecklistSummary   ChecklistSummary `json:"checklist_summary"`
	Note               *string          `json:"note,omitempty"`
	ElapsedMinutes     int              `json:"elapsed_minutes"`
	MinutesRemaining   int              `json:"minutes_until_check_out"`
	CanCheckOut        bool             `json:"can_check_out"`
}

type TodayResponse struct {
	Date          string           `json:"date"`
	DisplayStatus DisplayStatus    `json:"display_status"`
	Session       *SessionResponse `json:"session,omitempty"`
}

type DailyStatusResponse struct {
	PersonID    string           `json:"person_id"`
	DisplayName string           `json:"display_name"`
	Division    string           `json:"division"`
	Status      DisplayStatus    `json:"status"`
	Session     *SessionResponse `json:"session,omitempty"`
}

type DailyReportResponse struct {
	Date   string                `json:"date"`
	Totals map[DisplayStatus]int `json:"totals"`
	People []DailyStatusResponse `json:"people"`
}
