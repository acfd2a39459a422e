package inventory

import (
	"strings"

	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Code           *string `json:"code" validate:"omitempty,max=50"`
	QuantityOnHand int     `json:"quantity_on_hand" validate:"gte=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=tersedia habis dipinjam rusak hilang"`
}

func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Code != nil {
		code := strings.TrimSpace(*r.Code)
		r.Code = &code
		if code == "" {
			r.Code = nil
		}
	}
	if r.Status == "" {
		r.Status = string(StatusAvailable)
	}
	return validator.Struct(r)
}

type UpdateItemRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code           *string `json:"code" validate:"omitempty,max=50"`
	QuantityOnHand *int    `json:"quantity_on_hand" validate:"omitempty,gte=0"`
	Status         *string `json:"status" validate:"omitempty,oneof=tersedia habis dipinjam rusak hilang"`
}

func (r *UpdateItemRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return validator.Struct(r)
}

type ItemResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Code           *string    `json:"code,omitempty"`
	QuantityOnHand int        `json:"quantity_on_hand"`
	Status         ItemStatus `json:"status"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

func ToResponse(item Item) ItemResponse {
	return ItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		Code:           item.Code,
		QuantityOnHand: item.QuantityOnHand,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
