package mealplan

import "fmt"

// MealType identifies one of the three daily meal slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

// Assignment is one scheduled placement of a recipe into a day/meal slot of
// the planning week. The same recipe may be assigned to several slots, or
// even twice to the same slot.
type Assignment struct {
	ID              int64    `json:"id"`
	RecipeID        int64    `json:"recipeId"`
	DayOfWeek       int      `json:"dayOfWeek"` // 0-6
	MealType        MealType `json:"mealType"`
	PlannedServings float64  `json:"plannedServings"`
}

// SlotKey is the "{day}-{meal}" key identifying a day/meal slot, used both
// for eating-out suppression and as the assignment-less provenance fallback.
func SlotKey(day int, meal MealType) string {
	return fmt.Sprintf("%d-%s", day, meal)
}
