package grocery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"
)

// Normalizer is the external normalization oracle: a batch of ingredient
// text lines in, grouped canonical entries out. It is invoked exactly once
// per reconciliation regardless of how many lines there are.
type Normalizer interface {
	Normalize(ctx context.Context, lines []string) ([]NormalizedResult, error)
}

// Reconcile flattens the consolidated entries to text lines, runs them
// through the oracle in a single batch, and maps the oracle's canonical names
// back to the original entries so no contributing source is lost.
//
// The oracle's uniqueness contract is not trusted: duplicate normalized names
// are dropped (first occurrence wins) with a logged warning. Oracle failure
// aborts the whole reconciliation; callers keep their previous list.
func Reconcile(ctx context.Context, entries []ConsolidatedEntry, n Normalizer) ([]Item, error) {
	lines := Flatten(entries)
	if len(lines) == 0 {
		return []Item{}, nil
	}

	results, err := n.Normalize(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize ingredient list: %w", err)
	}

	items := make([]Item, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, res := range results {
		key := strings.ToLower(strings.TrimSpace(res.NormalizedName))
		if key == "" {
			continue
		}
		if seen[key] {
			log.Printf("Warning: normalizer returned duplicate name %q, keeping the first occurrence", res.NormalizedName)
			continue
		}
		seen[key] = true

		items = append(items, Item{
			Name:          res.NormalizedName,
			TotalQuantity: res.TotalQuantity,
			Normalized:    true,
			Checked:       false,
			Sources:       matchSources(res.NormalizedName, entries),
		})
	}
	return items, nil
}

// Flatten turns consolidated entries into the oracle's input lines, one per
// contributing occurrence. Numeric quantities lead ("200 g pasta"), textual
// ones trail ("sale q.b."), empty ones are omitted.
func Flatten(entries []ConsolidatedEntry) []string {
	var lines []string
	for _, entry := range entries {
		for _, quantity := range entry.Quantities {
			lines = append(lines, flattenLine(quantity, entry.Name))
		}
	}
	return lines
}

func flattenLine(quantity, name string) string {
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		return strings.TrimSpace(name)
	}
	if quantity[0] >= '0' && quantity[0] <= '9' {
		return strings.TrimSpace(quantity + " " + name)
	}
	return strings.TrimSpace(name + " " + quantity)
}

// matchSources collects, deduplicated, the sources of every consolidated
// entry whose name matches the normalized name. Provenance merges by
// ingredient name group: all of a matching entry's sources are eligible, not
// just the ones behind a particular line.
func matchSources(normalizedName string, entries []ConsolidatedEntry) []Source {
	var (
		merged []Source
		seen   = make(map[string]bool)
	)
	for _, entry := range entries {
		if !namesMatch(normalizedName, entry.Name) {
			continue
		}
		for _, src := range entry.Sources {
			key := src.dedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, src)
		}
	}
	return merged
}

// namesMatch decides whether a normalized name and an original entry name
// refer to the same ingredient. Three ways in: raw substring containment,
// token-subset with at least two tokens on the shorter side, or both sides
// reducing to the same single token.
func namesMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}

	ta := tokenize(la)
	tb := tokenize(lb)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	if len(ta) == 1 && len(tb) == 1 {
		return ta[0] == tb[0]
	}
	short, long := ta, tb
	if len(tb) < len(ta) {
		short, long = tb, ta
	}
	if len(short) < 2 {
		return false
	}
	return isTokenSubset(short, long)
}

func isTokenSubset(short, long []string) bool {
	set := make(map[string]bool, len(long))
	for _, t := range long {
		set[t] = true
	}
	for _, t := range short {
		if !set[t] {
			return false
		}
	}
	return true
}

// stopwords are Italian function words ignored during token matching.
var stopwords = map[string]bool{
	"di": true, "d": true, "del": true, "dello": true, "della": true,
	"dei": true, "degli": true, "delle": true, "al": true, "allo": true,
	"alla": true, "ai": true, "alle": true, "da": true, "in": true,
	"con": true, "e": true,
}

var diacritics = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a",
	"è", "e", "é", "e", "ê", "e",
	"ì", "i", "í", "i", "î", "i",
	"ò", "o", "ó", "o", "ô", "o",
	"ù", "u", "ú", "u", "û", "u",
	"ç", "c",
)

// tokenize lowercases, strips diacritics and punctuation, and drops Italian
// stopwords, leaving the content-bearing tokens of an ingredient name.
func tokenize(s string) []string {
	s = diacritics.Replace(strings.ToLower(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
