package http

import (
	"log/slog"
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type inventoryHandlerImpl struct {
	inventoryService inventory.Service
}

func NewInventoryHandler(inventoryService inventory.Service) InventoryHandler {
	return &inventoryHandlerImpl{inventoryService: inventoryService}
}

func (h *inventoryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *inventoryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.inventoryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Inventory item created", item)
}

func (h *inventoryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req inventory.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	item, err := h.inventoryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Inventory item updated", item)
}

func (h *inventoryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete inventory item error", "item_id", id, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Inventory item deleted", nil)
}
