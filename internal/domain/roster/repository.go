package roster

import "context"

// Repository persists the single weekly roster.
type Repository interface {
	// Load returns the persisted roster with all five weekdays present.
	Load(ctx context.Context) (Roster, error)

	// Save overwrites the persisted roster atomically and returns the new version.
	// When expectedVersion is non-nil and differs from the stored version the
	// save is rejected with ErrRosterVersionConflict.
	Save(ctx context.Context, days Days, expectedVersion *int64) (int64, error)

	// Clear removes every assignment and returns the new version.
	Clear(ctx context.Context) (int64, error)
}
