package recipe

import "menu-planner/internal/ingredient"

// Ingredient is one line of a recipe's ingredient list. Original holds the
// verbatim source text; Quantity and Name are the parsed split of it.
// Normalized, when set, is the canonical name a previous normalization run
// assigned to this ingredient.
type Ingredient struct {
	Original   string `json:"original"`
	Quantity   string `json:"quantity"`
	Name       string `json:"name"`
	Normalized string `json:"normalized,omitempty"`
}

// Recipe is a stored recipe. Servings is free text ("4", "2-4 porzioni")
// describing the yield the ingredient quantities are calibrated for.
type Recipe struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Servings    string       `json:"servings,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
}

// FromLines builds the ingredient list from raw text lines, parsing each one
// into its quantity/name split. Blank lines are dropped.
func FromLines(lines []string) []Ingredient {
	ingredients := make([]Ingredient, 0, len(lines))
	for _, line := range lines {
		parsed := ingredient.Parse(line)
		if parsed.Name == "" && parsed.Quantity == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Original: line,
			Quantity: parsed.Quantity,
			Name:     parsed.Name,
		})
	}
	return ingredients
}
