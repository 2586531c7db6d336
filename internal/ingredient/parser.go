package ingredient

import (
	"regexp"
	"strings"
)

// Parsed is the result of splitting an ingredient line into a free-text
// quantity fragment and the remaining descriptive name. Quantity may be
// empty or the literal "q.b.".
type Parsed struct {
	Quantity string
	Name     string
}

// number accepts decimals with either "." or "," as separator.
const number = `\d+(?:[.,]\d+)?`

// units recognized after or before a number. "q.b." forms are only valid in
// trailing position and are handled by their own rules.
const units = `kg|g|ml|l|cl|dl|cucchiaini|cucchiaino|cucchiai|cucchiaio|pizzichi|pizzico`

// rule pairs a pattern with an extractor. Rules are evaluated top to bottom
// and the first match wins; there is no backtracking across rules.
type rule struct {
	re      *regexp.Regexp
	extract func(m []string) Parsed
}

var rules = []rule{
	// "<name> <number><unit>", e.g. "Pasta 200 g", "Sale 2 pizzichi"
	{
		re: regexp.MustCompile(`(?i)^(.+?)\s+(` + number + `)\s*(` + units + `|q\.?\s?b\.?|quanto basta)\s*$`),
		extract: func(m []string) Parsed {
			return Parsed{Quantity: m[2] + " " + strings.TrimSpace(m[3]), Name: strings.TrimSpace(m[1])}
		},
	},
	// "<number><unit> di <name>", e.g. "200 g di pasta", "3 cucchiai d'olio"
	{
		re: regexp.MustCompile(`(?i)^(` + number + `)\s*(` + units + `)\s+(?:di\s+|d['’]\s*)?(.+)$`),
		extract: func(m []string) Parsed {
			return Parsed{Quantity: m[1] + " " + strings.TrimSpace(m[2]), Name: strings.TrimSpace(m[3])}
		},
	},
	// "<name> q.b.", e.g. "Sale q.b.", "Pepe quanto basta"
	{
		re: regexp.MustCompile(`(?i)^(.+?)\s+(?:q\.?\s?b\.?|quanto basta)\s*$`),
		extract: func(m []string) Parsed {
			return Parsed{Quantity: "q.b.", Name: strings.TrimSpace(m[1])}
		},
	},
	// "[n.] <number> <name>", e.g. "4 uova", "n. 2 zucchine", "1/2 limone"
	{
		re: regexp.MustCompile(`(?i)^(?:n\.?\s*)?(` + number + `(?:\s*/\s*\d+)?)\s+(.+)$`),
		extract: func(m []string) Parsed {
			return Parsed{Quantity: strings.TrimSpace(m[1]), Name: strings.TrimSpace(m[2])}
		},
	},
}

// Parse splits a free-text ingredient line into quantity and name. It never
// fails: a line no rule recognizes comes back with an empty quantity and the
// line itself as the name.
func Parse(line string) Parsed {
	line = strings.TrimSpace(line)
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(line); m != nil {
			return r.extract(m)
		}
	}
	return Parsed{Quantity: "", Name: line}
}

var (
	leadingBullet = regexp.MustCompile(`^[-•*]\s*`)
	bareCount     = regexp.MustCompile(`^(?:n\.?\s*)?([\d.,/]+)\s+(.+)$`)
)

// RecoverCount re-examines a name that ended up with no quantity and tries to
// pull a leading count out of it ("5 uova" -> "5", "uova"). This recovers
// lines where a numeric prefix stayed glued to the name, e.g. after an
// upstream rename replaced the ingredient name but kept a stray count.
func RecoverCount(name string) (Parsed, bool) {
	stripped := leadingBullet.ReplaceAllString(strings.TrimSpace(name), "")
	m := bareCount.FindStringSubmatch(stripped)
	if m == nil {
		return Parsed{}, false
	}
	return Parsed{Quantity: m[1], Name: strings.TrimSpace(m[2])}, true
}
