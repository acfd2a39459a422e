package inventory

import "context"

// Directory is the read-only view consulted when a session checks in.
type Directory interface {
	ListAll(ctx context.Context) ([]Item, error)
}

type Repository interface {
	Directory

	GetByID(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id string) error
}
