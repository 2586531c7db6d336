package ingredient

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestScaleIdentity(t *testing.T) {
	for _, q := range []string{"200 g", "q.b.", "", "una manciata", "1,5 l"} {
		if got := Scale(q, 1); got != q {
			t.Errorf("Scale(%q, 1) = %q, want input unchanged", q, got)
		}
	}
}

func TestScale(t *testing.T) {
	cases := []struct {
		quantity string
		ratio    float64
		want     string
	}{
		{"200 g", 2, "400 g"},
		{"200 g", 0.5, "100 g"},
		{"1,5 l", 2, "3 l"},
		{"3 cucchiai", 1.5, "4.5 cucchiai"},
		{"4", 2, "8"},
		{"125 ml", 1.2, "150 ml"},
		// No leading number: returned unchanged
		{"q.b.", 2, "q.b."},
		{"una manciata", 3, "una manciata"},
		{"", 2, ""},
	}

	for _, tc := range cases {
		if got := Scale(tc.quantity, tc.ratio); got != tc.want {
			t.Errorf("Scale(%q, %v) = %q, want %q", tc.quantity, tc.ratio, got, tc.want)
		}
	}
}

func TestScaleLinearity(t *testing.T) {
	// Scaling twice must agree with scaling once by the product, within the
	// one-decimal rounding the formatter applies.
	quantities := []string{"200 g", "3", "1,5 l", "80 ml"}
	ratios := [][2]float64{{2, 3}, {0.5, 4}, {1.5, 1.5}}

	for _, q := range quantities {
		for _, r := range ratios {
			twice := Scale(Scale(q, r[0]), r[1])
			once := Scale(q, r[0]*r[1])
			if math.Abs(leadingValue(t, twice)-leadingValue(t, once)) > 0.1+1e-9 {
				t.Errorf("Scale(Scale(%q, %v), %v) = %q, Scale(%q, %v) = %q: beyond rounding tolerance",
					q, r[0], r[1], twice, q, r[0]*r[1], once)
			}
		}
	}
}

func leadingValue(t *testing.T, q string) float64 {
	t.Helper()
	m := leadingNumber.FindStringSubmatch(q)
	if m == nil {
		t.Fatalf("no leading number in %q", q)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		t.Fatalf("unparsable number in %q: %v", q, err)
	}
	return v
}

func TestParseServings(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"4", 4, true},
		{"4 porzioni", 4, true},
		{"per 6 persone", 6, true},
		{"2-4", 2, true},
		{"2-4 porzioni", 2, true},
		{"2/4 porzioni", 2, true},
		{"4/2", 2, true},
		{"2,5", 2.5, true},
		{"", 0, false},
		{"porzioni", 0, false},
		{"abbondante", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseServings(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseServings(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
