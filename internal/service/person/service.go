package person

import (
	"context"
	"fmt"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
)

type PersonServiceImpl struct {
	directory person.Directory
}

func NewPersonService(directory person.Directory) person.Service {
	return &PersonServiceImpl{directory: directory}
}

// List implements person.Service.
func (s *PersonServiceImpl) List(ctx context.Context) ([]person.PersonResponse, error) {
	people, err := s.directory.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	out := make([]person.PersonResponse, 0, len(people))
	for _, p := range people {
		out = append(out, person.ToResponse(p))
	}
	return out, nil
}

// Get implements person.Service.
func (s *PersonServiceImpl) Get(ctx context.Context, id string) (person.PersonResponse, error) {
	p, err := s.directory.GetByID(ctx, id)
	if err != nil {
		return person.PersonResponse{}, err
	}
	return person.ToResponse(p), nil
}
