package person

import "context"

// Directory is the read-only view of secretariat members.
type Directory interface {
	// ListAll returns every person ordered by display name.
	ListAll(ctx context.Context) ([]Person, error)

	GetByID(ctx context.Context, id string) (Person, error)

	// GetByUsername is used by login.
	GetByUsername(ctx context.Context, username string) (Person, error)
}

// Repository adds the writes used when seeding members.
type Repository interface {
	Directory

	Create(ctx context.Context, p Person) (Person, error)
}
