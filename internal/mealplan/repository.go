package mealplan

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles persistence of assignments and eating-out flags.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// CreateAssignment schedules a recipe into a slot and returns the new id.
func (r *Repository) CreateAssignment(ctx context.Context, a *Assignment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (recipe_id, day_of_week, meal_type, planned_servings) VALUES (?, ?, ?, ?)`,
		a.RecipeID, a.DayOfWeek, string(a.MealType), a.PlannedServings,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert assignment: %w", err)
	}
	return res.LastInsertId()
}

// ListAssignments returns every assignment of the planning week.
func (r *Repository) ListAssignments(ctx context.Context) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipe_id, day_of_week, meal_type, planned_servings FROM assignments ORDER BY day_of_week, meal_type, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var (
			a    Assignment
			meal string
		)
		if err := rows.Scan(&a.ID, &a.RecipeID, &a.DayOfWeek, &meal, &a.PlannedServings); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		a.MealType = MealType(meal)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// DeleteAssignment unschedules a single assignment.
func (r *Repository) DeleteAssignment(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// ClearWeek removes every assignment and eating-out flag in one transaction.
func (r *Repository) ClearWeek(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM eating_out`); err != nil {
		return fmt.Errorf("failed to clear eating-out flags: %w", err)
	}
	return tx.Commit()
}

// SetEatingOut flags a slot as "no cooking". The flag insert and the removal
// of that slot's assignments happen in the same transaction, so an assignment
// can never survive next to an eating-out flag.
func (r *Repository) SetEatingOut(ctx context.Context, day int, meal MealType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO eating_out (day_of_week, meal_type) VALUES (?, ?)`,
		day, string(meal),
	); err != nil {
		return fmt.Errorf("failed to insert eating-out flag: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM assignments WHERE day_of_week = ? AND meal_type = ?`,
		day, string(meal),
	); err != nil {
		return fmt.Errorf("failed to delete assignments for slot: %w", err)
	}
	return tx.Commit()
}

// UnsetEatingOut removes the eating-out flag from a slot.
func (r *Repository) UnsetEatingOut(ctx context.Context, day int, meal MealType) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM eating_out WHERE day_of_week = ? AND meal_type = ?`,
		day, string(meal),
	); err != nil {
		return fmt.Errorf("failed to delete eating-out flag: %w", err)
	}
	return nil
}

// EatingOutSlots returns the flagged slots keyed by SlotKey.
func (r *Repository) EatingOutSlots(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day_of_week, meal_type FROM eating_out`)
	if err != nil {
		return nil, fmt.Errorf("failed to list eating-out flags: %w", err)
	}
	defer rows.Close()

	slots := make(map[string]bool)
	for rows.Next() {
		var (
			day  int
			meal string
		)
		if err := rows.Scan(&day, &meal); err != nil {
			return nil, fmt.Errorf("failed to scan eating-out row: %w", err)
		}
		slots[SlotKey(day, MealType(meal))] = true
	}
	return slots, rows.Err()
}
