package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
)

type rosterRepository struct {
	mu        sync.Mutex
	days      roster.Days
	version   int64
	updatedAt *time.Time
}

func NewRosterRepository() roster.Repository {
	return &rosterRepository{days: roster.EmptyDays()}
}

func (r *rosterRepository) Load(ctx context.Context) (roster.Roster, error) {
	if err := ctx.Err(); err != nil {
		return roster.Roster{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return roster.Roster{Days: r.days.Clone(), Version: r.version, UpdatedAt: r.updatedAt}, nil
}

func (r *rosterRepository) Save(ctx context.Context, days roster.Days, expectedVersion *int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if expectedVersion != nil && *expectedVersion != r.version {
		return 0, fmt.Errorf("%w: expected %d, stored %d", roster.ErrRosterVersionConflict, *expectedVersion, r.version)
	}
	r.days = days.Clone()
	return r.bump(), nil
}

func (r *rosterRepository) Clear(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.days = roster.EmptyDays()
	return r.bump(), nil
}

func (r *rosterRepository) bump() int64 {
	now := time.Now()
	r.version++
	r.updatedAt = &now
	return r.version
}
