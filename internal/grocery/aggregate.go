package grocery

import (
	"math"
	"strings"

	"menu-planner/internal/ingredient"
	"menu-planner/internal/mealplan"
	"menu-planner/internal/recipe"
)

// Aggregate folds the week's assignments into consolidated entries keyed by
// lowercase ingredient name, scaling each recipe's quantities by its
// planned-vs-base servings ratio and recording per-source provenance.
//
// It operates purely on the snapshot it is given: no I/O. Assignments whose
// slot is flagged eating-out are skipped, as are assignments referencing a
// recipe missing from the snapshot. Entries come back in first-seen order.
func Aggregate(recipes []recipe.Recipe, assignments []mealplan.Assignment, eatingOut map[string]bool) []ConsolidatedEntry {
	byID := make(map[int64]*recipe.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	entries := make(map[string]*ConsolidatedEntry)
	var order []string

	for _, a := range assignments {
		if eatingOut[mealplan.SlotKey(a.DayOfWeek, a.MealType)] {
			continue
		}
		rec, ok := byID[a.RecipeID]
		if !ok {
			// Stale snapshot: the recipe was deleted after the assignment.
			continue
		}

		base, hasBase := ingredient.ParseServings(rec.Servings)
		planned := a.PlannedServings
		if !(planned > 0) || math.IsInf(planned, 0) {
			if hasBase {
				planned = base
			} else {
				planned = 1
			}
		}
		ratio := 1.0
		if hasBase && base > 0 {
			ratio = planned / base
		}

		for _, ing := range rec.Ingredients {
			quantity, name := ing.Quantity, ing.Name

			// Recovery pass: a missing quantity may hide as a leading count
			// glued to the name. Skipped when a prior normalization already
			// renamed the ingredient, since the count would belong to the
			// replaced text, not the canonical name.
			if quantity == "" && ing.Normalized == "" {
				if p, ok := ingredient.RecoverCount(name); ok {
					quantity, name = p.Quantity, p.Name
				}
			}

			scaled := ingredient.Scale(quantity, ratio)

			keyName := name
			if ing.Normalized != "" {
				keyName = ing.Normalized
			}
			key := strings.ToLower(keyName)

			entry, ok := entries[key]
			if !ok {
				entry = &ConsolidatedEntry{Name: keyName}
				entries[key] = entry
				order = append(order, key)
			}
			entry.Quantities = append(entry.Quantities, scaled)
			entry.Original = append(entry.Original, ing.Original)
			entry.Sources = append(entry.Sources, Source{
				RecipeName:   rec.Name,
				RecipeID:     rec.ID,
				AssignmentID: a.ID,
				DayOfWeek:    a.DayOfWeek,
				MealType:     string(a.MealType),
				Quantity:     scaled,
				OriginalText: ing.Original,
			})
		}
	}

	out := make([]ConsolidatedEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *entries[key])
	}
	return out
}
