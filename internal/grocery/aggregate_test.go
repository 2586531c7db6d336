package grocery

import (
	"testing"

	"menu-planner/internal/mealplan"
	"menu-planner/internal/recipe"
)

func pastaRecipe(id int64, servings string, lines ...string) recipe.Recipe {
	return recipe.Recipe{
		ID:          id,
		Name:        "Pasta",
		Servings:    servings,
		Ingredients: recipe.FromLines(lines),
	}
}

func TestAggregateEatingOutSuppressesIngredients(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "4", "200 g di pasta", "Sale q.b.")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 4},
	}
	eatingOut := map[string]bool{"0-lunch": true}

	entries := Aggregate(recipes, assignments, eatingOut)
	if len(entries) != 0 {
		t.Fatalf("expected empty consolidated list, got %d entries", len(entries))
	}
}

func TestAggregateScaling(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "2", "200 g di pasta")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 4},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "pasta" {
		t.Errorf("expected entry name 'pasta', got %q", entries[0].Name)
	}
	if len(entries[0].Quantities) != 1 || entries[0].Quantities[0] != "400 g" {
		t.Errorf("expected quantities [\"400 g\"], got %v", entries[0].Quantities)
	}
}

func TestAggregateCountRecovery(t *testing.T) {
	// The parser missed the count: quantity is empty and the name still
	// carries the leading number.
	recipes := []recipe.Recipe{{
		ID:   1,
		Name: "Frittata",
		Ingredients: []recipe.Ingredient{
			{Original: "5 uova", Quantity: "", Name: "5 uova"},
		},
	}}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 2, MealType: mealplan.Dinner, PlannedServings: 0},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "uova" {
		t.Errorf("expected recovered name 'uova', got %q", entries[0].Name)
	}
	if entries[0].Quantities[0] != "5" {
		t.Errorf("expected recovered quantity '5', got %q", entries[0].Quantities[0])
	}
}

func TestAggregateNoRecoveryWithPriorNormalization(t *testing.T) {
	// A previously normalized ingredient keeps its canonical name even when
	// the working name starts with a stray count.
	recipes := []recipe.Recipe{{
		ID:   1,
		Name: "Frittata",
		Ingredients: []recipe.Ingredient{
			{Original: "5 uova", Quantity: "", Name: "5 uova", Normalized: "Uova"},
		},
	}}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 2, MealType: mealplan.Dinner, PlannedServings: 1},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "Uova" {
		t.Errorf("expected canonical name 'Uova', got %q", entries[0].Name)
	}
	if entries[0].Quantities[0] != "" {
		t.Errorf("expected no recovered quantity, got %q", entries[0].Quantities[0])
	}
}

func TestAggregateDuplicateMealsNotCollapsed(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "4", "200 g di pasta")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 4},
		{ID: 11, RecipeID: 1, DayOfWeek: 1, MealType: mealplan.Dinner, PlannedServings: 4},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 consolidated entry, got %d", len(entries))
	}
	sources := entries[0].Sources
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].DayOfWeek == sources[1].DayOfWeek && sources[0].MealType == sources[1].MealType {
		t.Error("expected distinct day/meal on the two sources")
	}
}

func TestAggregateConservation(t *testing.T) {
	recipes := []recipe.Recipe{
		pastaRecipe(1, "4", "200 g di pasta", "Sale q.b.", "2 cucchiai d'olio"),
		{ID: 2, Name: "Insalata", Servings: "2", Ingredients: recipe.FromLines([]string{"1 cespo di lattuga", "Olio q.b."})},
	}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 4},
		{ID: 11, RecipeID: 2, DayOfWeek: 0, MealType: mealplan.Dinner, PlannedServings: 2},
		{ID: 12, RecipeID: 1, DayOfWeek: 3, MealType: mealplan.Lunch, PlannedServings: 2},
		{ID: 13, RecipeID: 2, DayOfWeek: 4, MealType: mealplan.Dinner, PlannedServings: 2},
	}
	eatingOut := map[string]bool{"4-dinner": true}

	// Non-suppressed: assignments 10, 11, 12 -> 3 + 2 + 3 ingredient occurrences.
	want := 8

	entries := Aggregate(recipes, assignments, eatingOut)
	total := 0
	for _, entry := range entries {
		if len(entry.Sources) != len(entry.Quantities) || len(entry.Sources) != len(entry.Original) {
			t.Errorf("entry %q slots out of sync: %d sources, %d quantities, %d originals",
				entry.Name, len(entry.Sources), len(entry.Quantities), len(entry.Original))
		}
		total += len(entry.Sources)
	}
	if total != want {
		t.Errorf("expected %d source records, got %d", want, total)
	}
}

func TestAggregateSkipsMissingRecipe(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "4", "200 g di pasta")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 99, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 4},
	}

	if entries := Aggregate(recipes, assignments, nil); len(entries) != 0 {
		t.Fatalf("expected stale assignment to be skipped, got %d entries", len(entries))
	}
}

func TestAggregateUnparsableServingsDegradesToRatioOne(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "abbondante", "200 g di pasta")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: 6},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Quantities[0] != "200 g" {
		t.Errorf("expected unscaled quantity '200 g', got %q", entries[0].Quantities[0])
	}
}

func TestAggregateInvalidPlannedServingsFallsBack(t *testing.T) {
	recipes := []recipe.Recipe{pastaRecipe(1, "2", "200 g di pasta")}
	assignments := []mealplan.Assignment{
		{ID: 10, RecipeID: 1, DayOfWeek: 0, MealType: mealplan.Lunch, PlannedServings: -3},
	}

	entries := Aggregate(recipes, assignments, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	// Fallback to base servings means ratio 1.
	if entries[0].Quantities[0] != "200 g" {
		t.Errorf("expected quantity '200 g', got %q", entries[0].Quantities[0])
	}
}
