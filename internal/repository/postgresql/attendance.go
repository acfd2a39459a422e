package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const openSessionIndex = "attendance_sessions_one_open_per_day"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const sessionSelect = `
	SELECT s.id, s.person_id::text, s.date, s.check_in_time, s.check_out_time,
		   s.checklist, s.checklist_submitted, s.note,
		   s.check_in_latitude, s.check_in_longitude,
		   s.check_out_latitude, s.check_out_longitude,
		   s.check_in_photo_path, s.check_out_photo_path,
		   s.final_status, s.archived_at, s.created_at, s.updated_at,
		   p.display_name
	FROM attendance_sessions s
	LEFT JOIN persons p ON p.id = s.person_id
`

// dateParam sends the calendar date as text so the session's local date is
// stored regardless of the time.Time location.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	var date time.Time
	var outLat, outLon *float64

	err := row.Scan(
		&s.ID, &s.PersonID, &date, &s.CheckInTime, &s.CheckOutTime,
		&s.Checklist, &s.ChecklistSubmitted, &s.Note,
		&s.CheckInLocation.Latitude, &s.CheckInLocation.Longitude,
		&outLat, &outLon,
		&s.CheckInPhotoPath, &s.CheckOutPhotoPath,
		&s.FinalStatus, &s.ArchivedAt, &s.CreatedAt, &s.UpdatedAt,
		&s.PersonName,
	)
	if err != nil {
		return attendance.Session{}, err
	}

	s.Date = date
	if outLat != nil && outLon != nil {
		s.CheckOutLocation = &attendance.Location{Latitude: *outLat, Longitude: *outLon}
	}
	if s.Checklist == nil {
		s.Checklist = []attendance.ChecklistEntry{}
	}
	return s, nil
}

func scanSessions(rows pgx.Rows) ([]attendance.Session, error) {
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance sessions: %w", err)
	}
	return sessions, nil
}

// FindOpenSession implements attendance.Repository.
func (a *attendanceRepository) FindOpenSession(ctx context.Context, personID string, date time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := sessionSelect + `
		WHERE s.person_id::text = $1
		  AND s.date = $2::date
		  AND s.check_out_time IS NULL
		ORDER BY s.check_in_time DESC
		LIMIT 1
	`
	s, err := scanSession(q.QueryRow(ctx, query, personID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open session: %w", err)
	}
	return &s, nil
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_sessions (
			person_id, date, check_in_time, checklist, checklist_submitted,
			check_in_latitude, check_in_longitude, check_in_photo_path
		) VALUES (
			$1::uuid, $2::date, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		s.PersonID,
		dateParam(s.Date),
		s.CheckInTime,
		s.Checklist,
		s.ChecklistSubmitted,
		s.CheckInLocation.Latitude,
		s.CheckInLocation.Longitude,
		s.CheckInPhotoPath,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openSessionIndex) {
			return attendance.Session{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}
	return s, nil
}

// Save implements attendance.Repository.
func (a *attendanceRepository) Save(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	var outLat, outLon *float64
	if s.CheckOutLocation != nil {
		outLat, outLon = &s.CheckOutLocation.Latitude, &s.CheckOutLocation.Longitude
	}

	query := `
		UPDATE attendance_sessions
		SET checklist = $2,
			checklist_submitted = $3,
			note = $4,
			check_out_time = $5,
			check_out_latitude = $6,
			check_out_longitude = $7,
			check_out_photo_path = $8,
			final_status = $9,
			archived_at = $10,
			updated_at = NOW()
		WHERE id::text = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID,
		s.Checklist,
		s.ChecklistSubmitted,
		s.Note,
		s.CheckOutTime,
		outLat,
		outLon,
		s.CheckOutPhotoPath,
		s.FinalStatus,
		s.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	s, err := scanSession(q.QueryRow(ctx, sessionSelect+` WHERE s.id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return s, nil
}

// GetLatestByPersonAndDate implements attendance.Repository.
func (a *attendanceRepository) GetLatestByPersonAndDate(ctx context.Context, personID string, date time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := sessionSelect + `
		WHERE s.person_id::text = $1 AND s.date = $2::date
		ORDER BY s.check_in_time DESC
		LIMIT 1
	`
	s, err := scanSession(q.QueryRow(ctx, query, personID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session for date: %w", err)
	}
	return &s, nil
}

// ListByDate implements attendance.Repository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, sessionSelect+`
		WHERE s.date = $1::date
		ORDER BY s.check_in_time DESC
	`, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by date: %w", err)
	}
	return scanSessions(rows)
}

// ListByPerson implements attendance.Repository.
func (a *attendanceRepository) ListByPerson(ctx context.Context, personID string, limit int) ([]attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, sessionSelect+`
		WHERE s.person_id::text = $1
		ORDER BY s.check_in_time DESC
		LIMIT $2
	`, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by person: %w", err)
	}
	return scanSessions(rows)
}

// ArchiveBefore implements attendance.Repository. Any unarchived session from
// an earlier day has passed its midnight cutoff, so it is either done or
// incomplete.
func (a *attendanceRepository) ArchiveBefore(ctx context.Context, date time.Time, archivedAt time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_sessions
		SET final_status = CASE WHEN check_out_time IS NOT NULL THEN $3 ELSE $4 END,
			archived_at = $2,
			updated_at = NOW()
		WHERE date < $1::date AND archived_at IS NULL
	`, dateParam(date), archivedAt, string(attendance.DisplayDone), string(attendance.DisplayIncomplete))
	if err != nil {
		return 0, fmt.Errorf("failed to archive attendance sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
