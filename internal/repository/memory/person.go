package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/google/uuid"
)

type personRepository struct {
	mu     sync.RWMutex
	people map[string]person.Person
}

func NewPersonRepository() person.Repository {
	return &personRepository{people: make(map[string]person.Person)}
}

func (r *personRepository) ListAll(ctx context.Context) ([]person.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	people := make([]person.Person, 0, len(r.people))
	for _, p := range r.people {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].DisplayName != people[j].DisplayName {
			return people[i].DisplayName < people[j].DisplayName
		}
		return people[i].Username < people[j].Username
	})
	return people, nil
}

func (r *personRepository) GetByID(ctx context.Context, id string) (person.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.people[id]
	if !ok {
		return person.Person{}, person.ErrPersonNotFound
	}
	return p, nil
}

func (r *personRepository) GetByUsername(ctx context.Context, username string) (person.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.people {
		if p.Username == username {
			return p, nil
		}
	}
	return person.Person{}, person.ErrPersonNotFound
}

func (r *personRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.people {
		if existing.Username == p.Username {
			return person.Person{}, person.ErrUsernameExists
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.people[p.ID] = p
	return p, nil
}
