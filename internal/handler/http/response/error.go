package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Typed errors carry their payload into details
	var conflictErr *roster.ConflictError
	if errors.As(err, &conflictErr) {
		days := make([]string, 0, len(conflictErr.Days))
		for _, d := range conflictErr.Days {
			days = append(days, d.String())
		}
		ConflictWithDetails(w, "ROSTER_CONFLICT", roster.ErrConflict.Error(), map[string]string{
			"person_id": conflictErr.PersonID,
			"days":      strings.Join(days, ","),
		})
		return
	}
	var insufficientErr *roster.InsufficientPeopleError
	if errors.As(err, &insufficientErr) {
		UnprocessableEntity(w, "INSUFFICIENT_PEOPLE", roster.ErrInsufficientPeople.Error(), map[string]string{
			"required":  strconv.Itoa(insufficientErr.Required),
			"available": strconv.Itoa(insufficientErr.Available),
		})
		return
	}
	var notEligibleErr *attendance.NotEligibleError
	if errors.As(err, &notEligibleErr) {
		ConflictWithDetails(w, "NOT_ELIGIBLE", notEligibleErr.Error(), map[string]string{
			"reason":            string(notEligibleErr.Reason),
			"minutes_remaining": strconv.Itoa(notEligibleErr.MinutesRemaining),
		})
		return
	}
	var incompleteErr *attendance.IncompleteChecklistError
	if errors.As(err, &incompleteErr) {
		UnprocessableEntity(w, "INCOMPLETE_CHECKLIST", attendance.ErrIncompleteChecklist.Error(), map[string]string{
			"missing": strings.Join(incompleteErr.Missing, ","),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, err.Error())

	// Person and inventory errors
	case errors.Is(err, person.ErrPersonNotFound):
		NotFound(w, "Person not found")
	case errors.Is(err, person.ErrUsernameExists):
		Conflict(w, err.Error())
	case errors.Is(err, inventory.ErrItemNotFound):
		NotFound(w, "Inventory item not found")
	case errors.Is(err, inventory.ErrItemCodeExists):
		Conflict(w, err.Error())
	case errors.Is(err, inventory.ErrInvalidItemStatus):
		BadRequest(w, err.Error(), nil)

	// Roster domain errors
	case errors.Is(err, roster.ErrRosterVersionConflict):
		ConflictWithDetails(w, "ROSTER_VERSION_CONFLICT", roster.ErrRosterVersionConflict.Error(), nil)
	case errors.Is(err, roster.ErrInvariantViolation):
		Conflict(w, err.Error())
	case errors.Is(err, roster.ErrNoPeople),
		errors.Is(err, roster.ErrInvalidHeadcount):
		UnprocessableEntity(w, "UNPROCESSABLE_ENTITY", err.Error(), nil)
	case errors.Is(err, roster.ErrInvalidDay),
		errors.Is(err, roster.ErrNoDaysSelected):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrSessionNotOwned):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrDuplicateCheckIn):
		ConflictWithDetails(w, "DUPLICATE_CHECK_IN", err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		ConflictWithDetails(w, "ALREADY_CHECKED_OUT", err.Error(), nil)
	case errors.Is(err, attendance.ErrSessionExpired):
		ConflictWithDetails(w, "SESSION_EXPIRED", err.Error(), nil)
	case errors.Is(err, attendance.ErrChecklistAlreadySubmitted):
		ConflictWithDetails(w, "CHECKLIST_ALREADY_SUBMITTED", err.Error(), nil)
	case errors.Is(err, attendance.ErrUnknownChecklistItem):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Storage did not respond in time")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
