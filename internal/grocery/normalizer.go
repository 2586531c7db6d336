package grocery

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"menu-planner/internal/llm"
)

// LLMNormalizer implements Normalizer on top of a text-generation model.
// All lines go out in one batched prompt, so a recompute costs one model
// call no matter how many ingredients the week has.
type LLMNormalizer struct {
	textGen llm.TextGenerator
}

// NewLLMNormalizer creates a model-backed normalizer.
func NewLLMNormalizer(textGen llm.TextGenerator) *LLMNormalizer {
	return &LLMNormalizer{textGen: textGen}
}

// Normalize sends the ingredient lines to the model and parses its response.
func (n *LLMNormalizer) Normalize(ctx context.Context, lines []string) ([]NormalizedResult, error) {
	resp, err := n.textGen.GenerateContent(ctx, buildNormalizePrompt(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to get normalization response: %w", err)
	}

	results, err := parseNormalizePayload(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse normalization response: %w. LLM Response: %s", err, resp)
	}
	return results, nil
}

func buildNormalizePrompt(lines []string) string {
	var listBuilder strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&listBuilder, "- %s\n", line)
	}

	return fmt.Sprintf(`
	You are a helpful assistant that consolidates a grocery list written in Italian.
	Below is a list of ingredient lines collected from several recipes. Group the
	lines that refer to the same ingredient (singular/plural forms, brand names,
	adjective noise like "fresco" or "tritato") under one canonical Italian name.

	Rules for quantities:
	1. Sum quantities that share a compatible unit (weight with weight, volume with volume).
	2. Never convert between incompatible units; join them with " + " instead (e.g. "132.5 g + 7.5 uova").
	3. Keep "q.b." as a non-numeric term, appended after any numeric total.
	4. Round count-based quantities up to the next whole number.
	5. Where a common kitchen equivalence is obvious (e.g. 60 g ≈ 1 uovo), you may apply it.

	Never return the same normalizedName twice.

	Return the output as a JSON object with the following structure:
	{
		"normalized": [
			{"normalizedName": "Canonical Name", "totalQuantity": "combined quantity text", "count": 2},
			...
		]
	}

	Ensure the output is valid JSON. Do not include any other text in your response.
	Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

	Ingredient lines:
	%s`, listBuilder.String())
}

// parseNormalizePayload locates the result array in the model's response.
// Models drift on the envelope, so the array is accepted at the top level,
// under "normalized", under "ingredients", or as the first array-valued
// property of the payload.
func parseNormalizePayload(raw string) ([]NormalizedResult, error) {
	cleaned := stripCodeFences(raw)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	list, err := findResultArray(payload)
	if err != nil {
		return nil, err
	}

	var results []NormalizedResult
	for _, element := range list {
		obj, ok := element.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("result element is not an object")
		}
		name, ok := obj["normalizedName"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("result element is missing normalizedName")
		}
		results = append(results, NormalizedResult{
			NormalizedName: name,
			TotalQuantity:  stringValue(obj["totalQuantity"]),
			Count:          intValue(obj["count"]),
		})
	}
	if results == nil {
		return nil, fmt.Errorf("result array is empty")
	}
	return results, nil
}

func findResultArray(payload any) ([]any, error) {
	if list, ok := payload.([]any); ok {
		return list, nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is neither an array nor an object")
	}
	for _, key := range []string{"normalized", "ingredients"} {
		if list, ok := obj[key].([]any); ok {
			return list, nil
		}
	}
	for _, value := range obj {
		if list, ok := value.([]any); ok {
			return list, nil
		}
	}
	return nil, fmt.Errorf("no array-valued property in response")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func intValue(v any) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}
