package http

import (
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PersonHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type personHandlerImpl struct {
	personService person.Service
}

func NewPersonHandler(personService person.Service) PersonHandler {
	return &personHandlerImpl{personService: personService}
}

func (h *personHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.personService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, people)
}

func (h *personHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.personService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, p)
}
