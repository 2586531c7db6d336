package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed repository for recipes. The ingredient list
// is stored as a JSON column alongside the indexed fields.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts a new recipe and returns its assigned id.
func (r *Repository) Save(ctx context.Context, rec *Recipe) (int64, error) {
	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (name, servings, ingredients, created_at) VALUES (?, ?, ?, ?)`,
		rec.Name, rec.Servings, string(ingredientsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}
	return res.LastInsertId()
}

// Update replaces the stored name, servings and ingredients of a recipe.
func (r *Repository) Update(ctx context.Context, rec *Recipe) error {
	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET name = ?, servings = ?, ingredients = ? WHERE id = ?`,
		rec.Name, rec.Servings, string(ingredientsJSON), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("recipe %d not found", rec.ID)
	}
	return nil
}

// Get retrieves a recipe by id. Returns (nil, nil) when it does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, servings, ingredients FROM recipes WHERE id = ?`, id)

	rec, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}
	return rec, nil
}

// List retrieves all recipes ordered by name.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, servings, ingredients FROM recipes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

// Delete removes a recipe by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var (
		rec             Recipe
		servings        sql.NullString
		ingredientsJSON string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &servings, &ingredientsJSON); err != nil {
		return nil, err
	}
	rec.Servings = servings.String
	if err := json.Unmarshal([]byte(ingredientsJSON), &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients JSON: %w", err)
	}
	return &rec, nil
}
