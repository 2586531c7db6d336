package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(.*)$`)

// Scale multiplies the leading numeric part of a quantity by ratio and
// reattaches the unit text. Quantities without a leading number ("q.b.",
// free text) are returned unchanged, as is everything when ratio is 1.
func Scale(quantity string, ratio float64) string {
	if ratio == 1 {
		return quantity
	}
	m := leadingNumber.FindStringSubmatch(strings.TrimSpace(quantity))
	if m == nil {
		return quantity
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return quantity
	}
	scaled := strconv.FormatFloat(value*ratio, 'f', 1, 64)
	scaled = strings.TrimSuffix(scaled, ".0")
	if m[2] == "" {
		return scaled
	}
	return scaled + " " + m[2]
}

var (
	servingsNoise    = regexp.MustCompile(`(?i)\b(porzioni|porzione|persone|persona|servings)\b`)
	servingsFraction = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	servingsRange    = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	servingsNumber   = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ParseServings extracts the base serving count from a recipe's free-text
// servings field. Fractions ("2/4") and ranges ("2-4") resolve to the lower
// bound. Returns false when no number is present; callers then skip scaling.
func ParseServings(s string) (float64, bool) {
	s = strings.TrimSpace(servingsNoise.ReplaceAllString(s, ""))
	if s == "" {
		return 0, false
	}
	if m := servingsFraction.FindStringSubmatch(s); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[2], 64)
		if a > b {
			a = b
		}
		if a > 0 {
			return a, true
		}
		return 0, false
	}
	if m := servingsRange.FindStringSubmatch(s); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[2], 64)
		if a > b {
			a = b
		}
		if a > 0 {
			return a, true
		}
		return 0, false
	}
	if m := servingsNumber.FindString(s); m != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
