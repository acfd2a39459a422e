package roster

import (
	"context"

	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/sse"
)

// Service keeps a working copy of the roster that is edited in place and
// persisted on Save.
type Service interface {
	// Get returns the working copy, loading it from storage on first use
	Get(ctx context.Context) (RosterResponse, error)

	// Generate replaces the working copy with a round-robin roster
	Generate(ctx context.Context, req GenerateRequest) (RosterResponse, error)

	// AddAssignment puts a person on one or more days
	AddAssignment(ctx context.Context, req AddAssignmentRequest) (RosterResponse, error)

	// RemoveAssignment takes a person off a day
	RemoveAssignment(ctx context.Context, day Weekday, personID string) (RosterResponse, error)

	// Available lists people on none of the given days
	Available(ctx context.Context, days []Weekday) (AvailableResponse, error)

	// Save persists the working copy
	Save(ctx context.Context, req SaveRequest) (RosterResponse, error)

	// Reload discards unsaved edits
	Reload(ctx context.Context) (RosterResponse, error)

	// Clear empties the roster and persists immediately
	Clear(ctx context.Context) (RosterResponse, error)

	// Subscribe streams roster change events
	Subscribe(ctx context.Context, subscriberID string) (<-chan sse.Event, func())
}
