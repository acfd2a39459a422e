package attendance

import (
	"context"
)

// Service defines business logic for duty attendance
type Service interface {
	// CheckIn opens today's session and snapshots the inventory checklist
	CheckIn(ctx context.Context, req CheckInRequest) (SessionResponse, error)

	// SubmitChecklist records the inventory judgement for an open session
	SubmitChecklist(ctx context.Context, req SubmitChecklistRequest) (SessionResponse, error)

	// CheckOut closes the session once the checklist is in and the minimum duration passed
	CheckOut(ctx context.Context, req CheckOutRequest) (SessionResponse, error)

	// Today returns the caller's session for today with its display status
	Today(ctx context.Context, personID string) (TodayResponse, error)

	// Get retrieves one session
	Get(ctx context.Context, id string) (SessionResponse, error)

	// DailyReport lists every person with their status on a date
	DailyReport(ctx context.Context, date string) (DailyReportResponse, error)

	// History lists a person's past sessions
	History(ctx context.Context, personID string, limit int) ([]SessionResponse, error)

	// ArchiveStale finalizes sessions from previous days
	ArchiveStale(ctx context.Context) (int64, error)
}
