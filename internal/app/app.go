package app

import (
	"context"
	"fmt"
	"log"

	"menu-planner/internal/grocery"
	"menu-planner/internal/mealplan"
	"menu-planner/internal/recipe"
)

// RecipeStore supplies the recipe snapshot the pipeline aggregates over.
type RecipeStore interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
}

// PlanStore supplies the week's assignments and eating-out flags.
type PlanStore interface {
	ListAssignments(ctx context.Context) ([]mealplan.Assignment, error)
	EatingOutSlots(ctx context.Context) (map[string]bool, error)
}

// ListStore persists the reconciled grocery list.
type ListStore interface {
	ReplaceAll(ctx context.Context, items []grocery.Item) ([]grocery.Item, error)
	List(ctx context.Context) ([]grocery.Item, error)
	ToggleChecked(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) error
}

// App wires the grocery pipeline over its persistence collaborators and the
// normalization oracle.
type App struct {
	recipes    RecipeStore
	plan       PlanStore
	list       ListStore
	normalizer grocery.Normalizer
}

// NewApp creates and initializes a new App instance.
func NewApp(recipes RecipeStore, plan PlanStore, list ListStore, normalizer grocery.Normalizer) *App {
	return &App{
		recipes:    recipes,
		plan:       plan,
		list:       list,
		normalizer: normalizer,
	}
}

// RebuildGroceryList runs the full pipeline: snapshot load, aggregation,
// one batched normalization call, reconciliation, replace-all persistence.
// Any failure before persistence leaves the previously stored list intact.
// Two overlapping rebuilds race benignly: whichever persists last wins.
func (a *App) RebuildGroceryList(ctx context.Context) ([]grocery.Item, error) {
	recipes, err := a.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	assignments, err := a.plan.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	eatingOut, err := a.plan.EatingOutSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load eating-out slots: %w", err)
	}

	entries := grocery.Aggregate(recipes, assignments, eatingOut)
	log.Printf("Aggregated %d assignments into %d consolidated entries", len(assignments), len(entries))

	items, err := grocery.Reconcile(ctx, entries, a.normalizer)
	if err != nil {
		return nil, err
	}

	saved, err := a.list.ReplaceAll(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("failed to persist grocery list: %w", err)
	}
	log.Printf("Persisted grocery list with %d items", len(saved))
	return saved, nil
}

// GroceryList returns the currently persisted list.
func (a *App) GroceryList(ctx context.Context) ([]grocery.Item, error) {
	return a.list.List(ctx)
}

// ToggleItem flips the checked state of a persisted item and returns the new
// state. Transient items without an id cannot be toggled.
func (a *App) ToggleItem(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("toggling requires a persisted item id")
	}
	return a.list.ToggleChecked(ctx, id)
}

// ClearGroceryList empties the persisted list.
func (a *App) ClearGroceryList(ctx context.Context) error {
	return a.list.Clear(ctx)
}
