package inventory

import "context"

type Service interface {
	List(ctx context.Context) ([]ItemResponse, error)
	Create(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	Update(ctx context.Context, req UpdateItemRequest) (ItemResponse, error)
	Delete(ctx context.Context, id string) error
}
