package ingredient

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		line     string
		quantity string
		name     string
	}{
		// Trailing quantity+unit
		{"Pasta 200 g", "200 g", "Pasta"},
		{"Farina 00 500 g", "500 g", "Farina 00"},
		{"Latte 1,5 l", "1,5 l", "Latte"},
		{"Parmigiano 2 cucchiai", "2 cucchiai", "Parmigiano"},
		{"Sale 2 pizzichi", "2 pizzichi", "Sale"},
		// Leading quantity+unit with preposition
		{"200 g di pasta", "200 g", "pasta"},
		{"2 l di latte", "2 l", "latte"},
		{"3 cucchiai d'olio", "3 cucchiai", "olio"},
		{"50 cl di vino bianco", "50 cl", "vino bianco"},
		{"250ml di panna", "250 ml", "panna"},
		// Leading quantity+unit without preposition
		{"100 g mandorle", "100 g", "mandorle"},
		// Trailing q.b.
		{"Sale q.b.", "q.b.", "Sale"},
		{"Pepe nero quanto basta", "q.b.", "Pepe nero"},
		{"Olio extravergine qb", "q.b.", "Olio extravergine"},
		// Leading bare count
		{"4 uova", "4", "uova"},
		{"n. 2 zucchine", "2", "zucchine"},
		{"1,5 mele", "1,5", "mele"},
		{"1/2 limone", "1/2", "limone"},
		// Fallback
		{"Prezzemolo tritato", "", "Prezzemolo tritato"},
		{"Scorza di un limone", "", "Scorza di un limone"},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got := Parse(tc.line)
			if got.Quantity != tc.quantity {
				t.Errorf("Parse(%q).Quantity = %q, want %q", tc.line, got.Quantity, tc.quantity)
			}
			if got.Name != tc.name {
				t.Errorf("Parse(%q).Name = %q, want %q", tc.line, got.Name, tc.name)
			}
		})
	}
}

func TestParseRoundTripUnits(t *testing.T) {
	// For every supported unit, "<name> <qty><unit>" must split back into the
	// same name and quantity.
	units := []string{"kg", "g", "ml", "l", "cl", "dl", "cucchiai", "cucchiaio", "cucchiaini", "cucchiaino", "pizzichi", "pizzico"}
	for _, unit := range units {
		line := "Ingrediente di prova 120 " + unit
		got := Parse(line)
		if got.Name != "Ingrediente di prova" {
			t.Errorf("Parse(%q).Name = %q, want %q", line, got.Name, "Ingrediente di prova")
		}
		if got.Quantity != "120 "+unit {
			t.Errorf("Parse(%q).Quantity = %q, want %q", line, got.Quantity, "120 "+unit)
		}
	}
}

func TestParseNeverEmptyName(t *testing.T) {
	for _, line := range []string{"   Pasta 200 g  ", "q.b.", "???", "1234"} {
		got := Parse(line)
		if got.Name == "" && got.Quantity == "" {
			t.Errorf("Parse(%q) lost the whole line", line)
		}
	}
}

func TestRecoverCount(t *testing.T) {
	t.Run("PlainCount", func(t *testing.T) {
		p, ok := RecoverCount("5 uova")
		if !ok {
			t.Fatal("expected recovery for '5 uova'")
		}
		if p.Quantity != "5" || p.Name != "uova" {
			t.Errorf("got %+v, want quantity '5' name 'uova'", p)
		}
	})

	t.Run("LeadingBullet", func(t *testing.T) {
		p, ok := RecoverCount("- 2 zucchine")
		if !ok {
			t.Fatal("expected recovery for '- 2 zucchine'")
		}
		if p.Quantity != "2" || p.Name != "zucchine" {
			t.Errorf("got %+v, want quantity '2' name 'zucchine'", p)
		}
	})

	t.Run("NPrefix", func(t *testing.T) {
		p, ok := RecoverCount("n. 3 peperoni")
		if !ok {
			t.Fatal("expected recovery for 'n. 3 peperoni'")
		}
		if p.Quantity != "3" || p.Name != "peperoni" {
			t.Errorf("got %+v, want quantity '3' name 'peperoni'", p)
		}
	})

	t.Run("NoCount", func(t *testing.T) {
		if _, ok := RecoverCount("prezzemolo tritato"); ok {
			t.Error("expected no recovery for a line without a leading count")
		}
	})
}
