package person

import "context"

// Service exposes the directory to the HTTP layer.
type Service interface {
	List(ctx context.Context) ([]PersonResponse, error)
	Get(ctx context.Context, id string) (PersonResponse, error)
}
