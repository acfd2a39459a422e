package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/google/uuid"
)

type inventoryRepository struct {
	mu    sync.RWMutex
	items map[string]inventory.Item
}

func NewInventoryRepository() inventory.Repository {
	return &inventoryRepository{items: make(map[string]inventory.Item)}
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	return item, nil
}

func (r *inventoryRepository) Create(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTaken(item.Code, "") {
		return inventory.Item{}, inventory.ErrItemCodeExists
	}

	item.ID = uuid.NewString()
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = item
	return item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	if r.codeTaken(item.Code, item.ID) {
		return inventory.Item{}, inventory.ErrItemCodeExists
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	r.items[item.ID] = item
	return item, nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return inventory.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// codeTaken must be called with the lock held.
func (r *inventoryRepository) codeTaken(code *string, exceptID string) bool {
	if code == nil {
		return false
	}
	for id, item := range r.items {
		if id != exceptID && item.Code != nil && *item.Code == *code {
			return true
		}
	}
	return false
}
