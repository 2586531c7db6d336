package grocery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of the grocery list. The list is a snapshot:
// a recompute replaces it wholesale, while checked toggles update single rows
// independently.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new grocery list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// ReplaceAll swaps the whole persisted list for the given items in one
// transaction and returns the items with their assigned ids. Checked state
// always resets with the snapshot.
func (r *Repository) ReplaceAll(ctx context.Context, items []Item) ([]Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM grocery_items`); err != nil {
		return nil, fmt.Errorf("failed to clear grocery items: %w", err)
	}

	now := time.Now().UTC()
	saved := make([]Item, 0, len(items))
	for position, item := range items {
		sourcesJSON, err := json.Marshal(item.Sources)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sources for %q: %w", item.Name, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO grocery_items (name, total_quantity, normalized, checked, sources, position, created_at)
			 VALUES (?, ?, ?, 0, ?, ?, ?)`,
			item.Name, item.TotalQuantity, item.Normalized, string(sourcesJSON), position, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert grocery item %q: %w", item.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		item.ID = id
		item.Checked = false
		saved = append(saved, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit grocery list: %w", err)
	}
	return saved, nil
}

// List returns the persisted grocery list in snapshot order.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, total_quantity, normalized, checked, sources FROM grocery_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item        Item
			sourcesJSON string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.TotalQuantity, &item.Normalized, &item.Checked, &sourcesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item row: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &item.Sources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sources JSON: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ToggleChecked flips the checked state of one item and returns the new
// state. Toggling requires a persisted id: an unknown id is an error, not a
// silent no-op.
func (r *Repository) ToggleChecked(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE grocery_items SET checked = NOT checked WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle grocery item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, fmt.Errorf("grocery item %d not found", id)
	}

	var checked bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT checked FROM grocery_items WHERE id = ?`, id).Scan(&checked); err != nil {
		return false, fmt.Errorf("failed to read back checked state: %w", err)
	}
	return checked, nil
}

// Clear empties the persisted grocery list.
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grocery_items`); err != nil {
		return fmt.Errorf("failed to clear grocery list: %w", err)
	}
	return nil
}
