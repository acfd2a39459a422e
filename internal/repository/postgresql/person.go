package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type personRepository struct {
	db *database.DB
}

func NewPersonRepository(db *database.DB) person.Repository {
	return &personRepository{db: db}
}

const personColumns = `id, username, display_name, division, role, password_hash, created_at, updated_at`

func scanPerson(row pgx.Row) (person.Person, error) {
	var p person.Person
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Division, &p.Role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListAll implements person.Directory.
func (r *personRepository) ListAll(ctx context.Context) ([]person.Person, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+personColumns+` FROM persons ORDER BY display_name, username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	people := make([]person.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}
	return people, nil
}

// GetByID implements person.Directory.
func (r *personRepository) GetByID(ctx context.Context, id string) (person.Person, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPerson(q.QueryRow(ctx, `SELECT `+personColumns+` FROM persons WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrPersonNotFound
		}
		return person.Person{}, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// GetByUsername implements person.Directory.
func (r *personRepository) GetByUsername(ctx context.Context, username string) (person.Person, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPerson(q.QueryRow(ctx, `SELECT `+personColumns+` FROM persons WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrPersonNotFound
		}
		return person.Person{}, fmt.Errorf("failed to get person by username: %w", err)
	}
	return p, nil
}

// Create implements person.Repository.
func (r *personRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO persons (username, display_name, division, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, p.Username, p.DisplayName, p.Division, p.Role, p.PasswordHash).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "persons_username_key") {
			return person.Person{}, person.ErrUsernameExists
		}
		return person.Person{}, fmt.Errorf("failed to create person: %w", err)
	}
	return p, nil
}
