package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/database"
)

type rosterRepository struct {
	db *database.DB
}

func NewRosterRepository(db *database.DB) roster.Repository {
	return &rosterRepository{db: db}
}

// Load implements roster.Repository.
func (r *rosterRepository) Load(ctx context.Context) (roster.Roster, error) {
	q := GetQuerier(ctx, r.db)

	result := roster.Roster{Days: roster.EmptyDays()}
	err := q.QueryRow(ctx, `SELECT version, updated_at FROM roster_meta WHERE id = 1`).
		Scan(&result.Version, &result.UpdatedAt)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to load roster version: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT day, person_id::text
		FROM roster_assignments
		ORDER BY day, position
	`)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to load roster: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayNum int16
		var personID string
		if err := rows.Scan(&dayNum, &personID); err != nil {
			return roster.Roster{}, fmt.Errorf("failed to scan roster assignment: %w", err)
		}
		day := roster.Weekday(dayNum)
		if !day.Valid() {
			return roster.Roster{}, fmt.Errorf("invalid stored roster day %d", dayNum)
		}
		result.Days[day] = append(result.Days[day], personID)
	}
	if err := rows.Err(); err != nil {
		return roster.Roster{}, fmt.Errorf("failed to iterate roster: %w", err)
	}

	return result, nil
}

// Save implements roster.Repository. The whole week is replaced in one
// transaction and the version counter is bumped.
func (r *rosterRepository) Save(ctx context.Context, days roster.Days, expectedVersion *int64) (int64, error) {
	var version int64
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		current, err := r.lockVersion(ctx, q)
		if err != nil {
			return err
		}
		if expectedVersion != nil && *expectedVersion != current {
			return fmt.Errorf("%w: expected %d, stored %d", roster.ErrRosterVersionConflict, *expectedVersion, current)
		}

		if _, err := q.Exec(ctx, `DELETE FROM roster_assignments`); err != nil {
			return fmt.Errorf("failed to clear roster assignments: %w", err)
		}

		var dayCol []int16
		var posCol []int32
		var personCol []string
		for _, day := range roster.Weekdays {
			for pos, personID := range days[day] {
				dayCol = append(dayCol, int16(day))
				posCol = append(posCol, int32(pos))
				personCol = append(personCol, personID)
			}
		}
		if len(personCol) > 0 {
			_, err := q.Exec(ctx, `
				INSERT INTO roster_assignments (day, position, person_id)
				SELECT d, p, pid::uuid
				FROM unnest($1::smallint[], $2::int[], $3::text[]) AS t(d, p, pid)
			`, dayCol, posCol, personCol)
			if err != nil {
				return fmt.Errorf("failed to insert roster assignments: %w", err)
			}
		}

		version, err = r.bumpVersion(ctx, q)
		return err
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Clear implements roster.Repository.
func (r *rosterRepository) Clear(ctx context.Context) (int64, error) {
	var version int64
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := r.lockVersion(ctx, q); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM roster_assignments`); err != nil {
			return fmt.Errorf("failed to clear roster assignments: %w", err)
		}

		var err error
		version, err = r.bumpVersion(ctx, q)
		return err
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (r *rosterRepository) lockVersion(ctx context.Context, q database.Querier) (int64, error) {
	var version int64
	if err := q.QueryRow(ctx, `SELECT version FROM roster_meta WHERE id = 1 FOR UPDATE`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to lock roster version: %w", err)
	}
	return version, nil
}

func (r *rosterRepository) bumpVersion(ctx context.Context, q database.Querier) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		UPDATE roster_meta SET version = version + 1, updated_at = $1
		WHERE id = 1
		RETURNING version
	`, time.Now()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to bump roster version: %w", err)
	}
	return version, nil
}
