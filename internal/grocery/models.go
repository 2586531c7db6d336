package grocery

import (
	"fmt"

	"menu-planner/internal/mealplan"
)

// Source links an aggregated quantity back to the recipe, assignment and
// original ingredient text that produced it. One Source exists per
// ingredient occurrence per assignment; repeated meals in the same week keep
// their own Source each.
type Source struct {
	RecipeName   string `json:"recipeName"`
	RecipeID     int64  `json:"recipeId"`
	AssignmentID int64  `json:"assignmentId,omitempty"`
	DayOfWeek    int    `json:"dayOfWeek"`
	MealType     string `json:"mealType"`
	Quantity     string `json:"quantity"`
	OriginalText string `json:"originalText"`
}

// dedupKey identifies a source occurrence. The assignment id anchors it when
// present; otherwise the day/meal slot stands in. Recipe id and original text
// complete the key, so two assignments sharing day, meal and recipe still
// count as two occurrences as long as their ids differ.
func (s Source) dedupKey() string {
	ref := fmt.Sprintf("%d", s.AssignmentID)
	if s.AssignmentID == 0 {
		ref = mealplan.SlotKey(s.DayOfWeek, mealplan.MealType(s.MealType))
	}
	return fmt.Sprintf("%s|%d|%s", ref, s.RecipeID, s.OriginalText)
}

// ConsolidatedEntry is the pre-normalization aggregation of one ingredient
// name across all contributing assignments. Quantities, Original and Sources
// run in parallel: one slot per contributing occurrence.
type ConsolidatedEntry struct {
	Name       string   `json:"name"`
	Quantities []string `json:"quantities"`
	Original   []string `json:"original"`
	Sources    []Source `json:"sources"`
}

// NormalizedResult is one row of the oracle's response: a canonical
// ingredient name, the combined quantity text (incompatible units joined
// with " + "), and how many input lines were grouped under it.
type NormalizedResult struct {
	NormalizedName string `json:"normalizedName"`
	TotalQuantity  string `json:"totalQuantity"`
	Count          int    `json:"count"`
}

// Item is one entry of the persisted grocery list. ID is assigned at
// persistence time; an Item without an id is transient and not toggleable.
type Item struct {
	ID            int64    `json:"id,omitempty"`
	Name          string   `json:"name"`
	TotalQuantity string   `json:"totalQuantity"`
	Normalized    bool     `json:"normalized"`
	Checked       bool     `json:"checked"`
	Sources       []Source `json:"sources,omitempty"`
}
