package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
)

type InventoryServiceImpl struct {
	repo   inventory.Repository
	logger *slog.Logger
}

func NewInventoryService(repo inventory.Repository, logger *slog.Logger) inventory.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryServiceImpl{
		repo:   repo,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// List implements inventory.Service.
func (s *InventoryServiceImpl) List(ctx context.Context) ([]inventory.ItemResponse, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	out := make([]inventory.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, inventory.ToResponse(item))
	}
	return out, nil
}

// Create implements inventory.Service.
func (s *InventoryServiceImpl) Create(ctx context.Context, req inventory.CreateItemRequest) (inventory.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return inventory.ItemResponse{}, err
	}
	status, err := inventory.ParseItemStatus(req.Status)
	if err != nil {
		return inventory.ItemResponse{}, err
	}

	created, err := s.repo.Create(ctx, inventory.Item{
		Name:           req.Name,
		Code:           req.Code,
		QuantityOnHand: req.QuantityOnHand,
		Status:         status,
	})
	if err != nil {
		return inventory.ItemResponse{}, err
	}

	s.logger.Info("inventory item created", "item_id", created.ID, "name", created.Name)
	return inventory.ToResponse(created), nil
}

// Update implements inventory.Service. Only the fields present in the
// request change.
func (s *InventoryServiceImpl) Update(ctx context.Context, req inventory.UpdateItemRequest) (inventory.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return inventory.ItemResponse{}, err
	}

	item, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return inventory.ItemResponse{}, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Code != nil {
		item.Code = req.Code
		if *req.Code == "" {
			item.Code = nil
		}
	}
	if req.QuantityOnHand != nil {
		item.QuantityOnHand = *req.QuantityOnHand
	}
	if req.Status != nil {
		status, err := inventory.ParseItemStatus(*req.Status)
		if err != nil {
			return inventory.ItemResponse{}, err
		}
		item.Status = status
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return inventory.ItemResponse{}, err
	}
	return inventory.ToResponse(updated), nil
}

// Delete implements inventory.Service. Existing checklist snapshots keep
// their copy of the item.
func (s *InventoryServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("inventory item deleted", "item_id", id)
	return nil
}
