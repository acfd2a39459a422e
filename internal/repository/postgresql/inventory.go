package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type inventoryRepository struct {
	db *database.DB
}

func NewInventoryRepository(db *database.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

const itemColumns = `id, name, code, quantity_on_hand, status, created_at, updated_at`

func scanItem(row pgx.Row) (inventory.Item, error) {
	var item inventory.Item
	err := row.Scan(&item.ID, &item.Name, &item.Code, &item.QuantityOnHand, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

// ListAll implements inventory.Directory. Items come back in a stable order
// so checklist snapshots list them the same way every session.
func (r *inventoryRepository) ListAll(ctx context.Context) ([]inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]inventory.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	item, err := scanItem(q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		return inventory.Item{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (r *inventoryRepository) Create(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO inventory_items (name, code, quantity_on_hand, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, item.Name, item.Code, item.QuantityOnHand, item.Status).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "inventory_items_code_key") {
			return inventory.Item{}, inventory.ErrItemCodeExists
		}
		return inventory.Item{}, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE inventory_items
		SET name = $2, code = $3, quantity_on_hand = $4, status = $5, updated_at = NOW()
		WHERE id::text = $1
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, item.ID, item.Name, item.Code, item.QuantityOnHand, item.Status).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		if isUniqueViolation(err, "inventory_items_code_key") {
			return inventory.Item{}, inventory.ErrItemCodeExists
		}
		return inventory.Item{}, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM inventory_items WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}
