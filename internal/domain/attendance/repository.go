package attendance

import (
	"context"
	"time"
)

// Repository defines data access for duty sessions.
type Repository interface {
	// FindOpenSession returns the person's session on date that has not been
	// checked out, or nil when there is none.
	FindOpenSession(ctx context.Context, personID string, date time.Time) (*Session, error)

	// Create inserts a new session. Storage rejects a second open session for
	// the same person and date with ErrDuplicateCheckIn.
	Create(ctx context.Context, session Session) (Session, error)

	// Save persists checklist and check-out changes of an existing session.
	Save(ctx context.Context, session Session) error

	GetByID(ctx context.Context, id string) (Session, error)

	// GetLatestByPersonAndDate returns the most recent session of the day,
	// open or closed, or nil.
	GetLatestByPersonAndDate(ctx context.Context, personID string, date time.Time) (*Session, error)

	// ListByDate returns every session on date, newest check-in first.
	ListByDate(ctx context.Context, date time.Time) ([]Session, error)

	// ListByPerson returns a person's sessions, newest first.
	ListByPerson(ctx context.Context, personID string, limit int) ([]Session, error)

	// ArchiveBefore stamps every unarchived session dated before date with its
	// final display status and returns how many were archived.
	ArchiveBefore(ctx context.Context, date time.Time, archivedAt time.Time) (int64, error)
}
