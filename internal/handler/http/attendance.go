package http

import (
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	SubmitChecklist(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	DailyReport(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	form, ok := parseAttendanceForm(w, r, &req)
	if !ok {
		return
	}
	defer form.File.Close()

	req.PersonID = claims.PersonID
	req.File = form.File
	req.FileHeader = form.Header

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// SubmitChecklist implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitChecklist(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	var req attendance.SubmitChecklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	req.PersonID = claims.PersonID

	result, err := h.attendanceService.SubmitChecklist(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checklist submitted", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	var req attendance.CheckOutRequest
	form, ok := parseAttendanceForm(w, r, &req)
	if !ok {
		return
	}
	defer form.File.Close()

	req.SessionID = chi.URLParam(r, "id")
	req.PersonID = claims.PersonID
	req.File = form.File
	req.FileHeader = form.Header

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Today(r.Context(), claims.PersonID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements AttendanceHandler. Members only see their own sessions.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result.PersonID != claims.PersonID && !claims.IsAdmin() {
		response.HandleError(w, attendance.ErrSessionNotOwned)
		return
	}
	response.Success(w, result)
}

// DailyReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) DailyReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.DailyReport(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.History(r.Context(), claims.PersonID, getIntQueryParam(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
