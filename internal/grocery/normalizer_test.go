package grocery

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockTextGen is a mock implementation of the llm.TextGenerator interface.
type mockTextGen struct {
	response string
	err      error
	prompt   string
}

func (m *mockTextGen) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestLLMNormalizerPromptContainsAllLines(t *testing.T) {
	mock := &mockTextGen{response: `{"normalized": [{"normalizedName": "Pasta", "totalQuantity": "600 g", "count": 2}]}`}
	n := NewLLMNormalizer(mock)

	lines := []string{"200 g pasta", "400 g pasta", "sale q.b."}
	if _, err := n.Normalize(context.Background(), lines); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, line := range lines {
		if !strings.Contains(mock.prompt, line) {
			t.Errorf("prompt is missing input line %q", line)
		}
	}
}

func TestLLMNormalizerPayloadShapes(t *testing.T) {
	payloads := map[string]string{
		"TopLevelArray":      `[{"normalizedName": "Pasta", "totalQuantity": "600 g", "count": 2}]`,
		"UnderNormalized":    `{"normalized": [{"normalizedName": "Pasta", "totalQuantity": "600 g", "count": 2}]}`,
		"UnderIngredients":   `{"ingredients": [{"normalizedName": "Pasta", "totalQuantity": "600 g", "count": 2}]}`,
		"FirstArrayProperty": `{"items": [{"normalizedName": "Pasta", "totalQuantity": "600 g", "count": 2}]}`,
		"MarkdownFenced":     "```json\n{\"normalized\": [{\"normalizedName\": \"Pasta\", \"totalQuantity\": \"600 g\", \"count\": 2}]}\n```",
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			n := NewLLMNormalizer(&mockTextGen{response: payload})
			results, err := n.Normalize(context.Background(), []string{"200 g pasta"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			if results[0].NormalizedName != "Pasta" || results[0].TotalQuantity != "600 g" || results[0].Count != 2 {
				t.Errorf("unexpected result %+v", results[0])
			}
		})
	}
}

func TestLLMNormalizerIncompatibleUnitsPassThrough(t *testing.T) {
	n := NewLLMNormalizer(&mockTextGen{
		response: `{"normalized": [{"normalizedName": "Uova", "totalQuantity": "132.5 g + 7.5 uova", "count": 3}]}`,
	})
	results, err := n.Normalize(context.Background(), []string{"2 uova"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results[0].TotalQuantity != "132.5 g + 7.5 uova" {
		t.Errorf("joined quantity mangled: %q", results[0].TotalQuantity)
	}
}

func TestLLMNormalizerNumericTotalTolerated(t *testing.T) {
	n := NewLLMNormalizer(&mockTextGen{
		response: `{"normalized": [{"normalizedName": "Uova", "totalQuantity": 6, "count": 2}]}`,
	})
	results, err := n.Normalize(context.Background(), []string{"4 uova", "2 uova"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results[0].TotalQuantity != "6" {
		t.Errorf("expected numeric total coerced to \"6\", got %q", results[0].TotalQuantity)
	}
}

func TestLLMNormalizerFailures(t *testing.T) {
	t.Run("ModelError", func(t *testing.T) {
		n := NewLLMNormalizer(&mockTextGen{err: errors.New("model unavailable")})
		if _, err := n.Normalize(context.Background(), []string{"200 g pasta"}); err == nil {
			t.Fatal("expected an error from the model, got nil")
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		n := NewLLMNormalizer(&mockTextGen{response: "this is not json"})
		_, err := n.Normalize(context.Background(), []string{"200 g pasta"})
		if err == nil {
			t.Fatal("expected an error for invalid JSON, got nil")
		}
		if !strings.Contains(err.Error(), "failed to parse normalization response") {
			t.Errorf("expected a parse error, got: %v", err)
		}
	})

	t.Run("NoArrayProperty", func(t *testing.T) {
		n := NewLLMNormalizer(&mockTextGen{response: `{"ok": true}`})
		if _, err := n.Normalize(context.Background(), []string{"200 g pasta"}); err == nil {
			t.Fatal("expected an error when no array-valued property exists, got nil")
		}
	})

	t.Run("MissingNormalizedName", func(t *testing.T) {
		n := NewLLMNormalizer(&mockTextGen{response: `{"normalized": [{"totalQuantity": "600 g"}]}`})
		if _, err := n.Normalize(context.Background(), []string{"200 g pasta"}); err == nil {
			t.Fatal("expected an error for a result without normalizedName, got nil")
		}
	})

	t.Run("EmptyArray", func(t *testing.T) {
		n := NewLLMNormalizer(&mockTextGen{response: `{"normalized": []}`})
		if _, err := n.Normalize(context.Background(), []string{"200 g pasta"}); err == nil {
			t.Fatal("expected an error for an empty result array, got nil")
		}
	})
}
