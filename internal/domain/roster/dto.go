package roster

import (
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	// People defaults to the whole directory in directory order.
	People          []string `json:"people" validate:"omitempty,dive,required"`
	HeadcountPerDay int      `json:"headcount_per_day" validate:"min=1,max=8"`
}

func (r *GenerateRequest) Validate() error {
	return validator.Struct(r)
}

type AddAssignmentRequest struct {
	PersonID string    `json:"person_id" validate:"required"`
	Days     []Weekday `json:"days" validate:"required,min=1"`
}

func (r *AddAssignmentRequest) Validate() error {
	return validator.Struct(r)
}

type SaveRequest struct {
	// Version, when set, makes the save fail if someone else saved since.
	Version *int64 `json:"version"`
}

type AssigneeResponse struct {
	PersonID         string `json:"person_id"`
	DisplayName      string `json:"display_name"`
	Division         string `json:"division"`
	Position         int    `json:"position"`
	TotalAssignments int    `json:"total_assignments"`
}

type DayResponse struct {
	Day       Weekday            `json:"day"`
	Label     string             `json:"label"`
	Assignees []AssigneeResponse `json:"assignees"`
}

type RosterResponse struct {
	Days       []DayResponse           `json:"days"`
	IsSaved    bool                    `json:"is_saved"`
	Version    int64                   `json:"version"`
	Unassigned []person.PersonResponse `json:"unassigned"`
}

type AvailableResponse struct {
	Days   []Weekday               `json:"days"`
	People []person.PersonResponse `json:"people"`
}

// StreamTokenResponse authorizes one EventSource connection.
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
