package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type RosterHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	AddAssignment(w http.ResponseWriter, r *http.Request)
	RemoveAssignment(w http.ResponseWriter, r *http.Request)
	Available(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	Reload(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)

	// SSE
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	rosterService roster.Service
	jwtService    jwt.Service
	keepalive     time.Duration
}

func NewRosterHandler(rosterService roster.Service, jwtService jwt.Service) RosterHandler {
	return &rosterHandlerImpl{
		rosterService: rosterService,
		jwtService:    jwtService,
		keepalive:     30 * time.Second,
	}
}

func (h *rosterHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rosterService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *rosterHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req roster.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.rosterService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Roster generated, save to keep it", resp)
}

func (h *rosterHandlerImpl) AddAssignment(w http.ResponseWriter, r *http.Request) {
	var req roster.AddAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.rosterService.AddAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Assignment added", resp)
}

func (h *rosterHandlerImpl) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	day, err := roster.ParseWeekday(chi.URLParam(r, "day"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.rosterService.RemoveAssignment(r.Context(), day, chi.URLParam(r, "personID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Assignment removed", resp)
}

func (h *rosterHandlerImpl) Available(w http.ResponseWriter, r *http.Request) {
	days, err := roster.ParseWeekdays(r.URL.Query().Get("days"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.rosterService.Available(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *rosterHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req roster.SaveRequest
	// An empty body saves unconditionally.
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.rosterService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Roster saved", resp)
}

func (h *rosterHandlerImpl) Reload(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rosterService.Reload(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Roster reloaded", resp)
}

func (h *rosterHandlerImpl) Clear(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rosterService.Clear(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Roster cleared", resp)
}

// StreamToken generates a short-lived token for SSE connections
func (h *rosterHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(claims.PersonID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, roster.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes roster change events until the client goes away.
func (h *rosterHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token comes in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	personID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.rosterService.Subscribe(r.Context(), personID)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
