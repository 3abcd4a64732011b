package currency

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{424, "EUR", "424.00 €"},
		{1234.5, "eur", "1,234.50 €"},
		{1234567.891, "USD", "$1,234,567.89"},
		{21.6, "GBP", "£21.60"},
		{-5, "USD", "-$5.00"},
		{0, "USD", "$0.00"},
		{1999.5, "JPY", "¥2,000"},
		{0.125, "EUR", "0.13 €"},
		{10, "XYZ", "10.00 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Format(tt.amount, tt.code); got != tt.want {
				t.Fatalf("Format(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup(" usd ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Symbol != "$" || c.Position != Before {
		t.Fatalf("unexpected currency: %+v", c)
	}

	if _, err := Lookup("ZZZ"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if !Supported("EUR") || Supported("") {
		t.Fatal("unexpected Supported result")
	}
}

func TestAll_Sorted(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Fatalf("currencies not sorted: %s before %s", all[i-1].Code, all[i].Code)
		}
	}
}

func TestRound(t *testing.T) {
	eur, _ := Lookup("EUR")
	if got := eur.Round(2.675); got != 2.68 {
		t.Fatalf("expected 2.68, got %v", got)
	}
	jpy, _ := Lookup("JPY")
	if got := jpy.Round(99.5); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}
