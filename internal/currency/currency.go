// Package currency formats amounts for display.
//
// Totals are computed in float64 without rounding; rounding to the minor
// unit of a currency only happens here, at the presentation boundary.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned for codes missing from the table
var ErrUnknownCurrency = errors.New("unknown currency")

// Position is where the symbol goes relative to the number
type Position int

const (
	Before Position = iota
	After
)

// Currency describes how amounts in one ISO 4217 currency are shown
type Currency struct {
	Code     string
	Name     string
	Symbol   string
	Decimals int32
	Position Position
}

var table = map[string]Currency{
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2, Position: After},
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", Decimals: 2, Position: Before},
	"GBP": {Code: "GBP", Name: "Pound Sterling", Symbol: "£", Decimals: 2, Position: Before},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Decimals: 2, Position: After},
	"CAD": {Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Decimals: 2, Position: Before},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Decimals: 2, Position: Before},
	"NZD": {Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Decimals: 2, Position: Before},
	"JPY": {Code: "JPY", Name: "Yen", Symbol: "¥", Decimals: 0, Position: Before},
	"CNY": {Code: "CNY", Name: "Yuan Renminbi", Symbol: "¥", Decimals: 2, Position: Before},
	"SEK": {Code: "SEK", Name: "Swedish Krona", Symbol: "kr", Decimals: 2, Position: After},
	"NOK": {Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", Decimals: 2, Position: After},
	"DKK": {Code: "DKK", Name: "Danish Krone", Symbol: "kr.", Decimals: 2, Position: After},
	"PLN": {Code: "PLN", Name: "Zloty", Symbol: "zł", Decimals: 2, Position: After},
	"CZK": {Code: "CZK", Name: "Czech Koruna", Symbol: "Kč", Decimals: 2, Position: After},
	"MAD": {Code: "MAD", Name: "Moroccan Dirham", Symbol: "DH", Decimals: 2, Position: After},
	"XOF": {Code: "XOF", Name: "CFA Franc BCEAO", Symbol: "CFA", Decimals: 0, Position: After},
	"KRW": {Code: "KRW", Name: "Won", Symbol: "₩", Decimals: 0, Position: Before},
	"INR": {Code: "INR", Name: "Indian Rupee", Symbol: "₹", Decimals: 2, Position: Before},
	"BRL": {Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Decimals: 2, Position: Before},
}

// Lookup returns the table entry for code, case-insensitively
func Lookup(code string) (Currency, error) {
	c, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// Supported reports whether code is in the table
func Supported(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// All returns every known currency sorted by code
func All() []Currency {
	out := make([]Currency, 0, len(table))
	for _, c := range table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Format renders amount in the given currency, e.g. "1,234.50 €" or "$1,234.50".
// Unknown codes fall back to two decimals followed by the code itself.
func Format(amount float64, code string) string {
	c, err := Lookup(code)
	if err != nil {
		c = Currency{Code: strings.ToUpper(code), Symbol: strings.ToUpper(code), Decimals: 2, Position: After}
	}
	return c.Format(amount)
}

// Format renders amount in this currency
func (c Currency) Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(c.Decimals)
	negative := d.IsNegative()
	number := group(d.Abs().StringFixed(c.Decimals))

	sign := ""
	if negative {
		sign = "-"
	}

	if c.Position == After {
		return sign + number + " " + c.Symbol
	}
	return sign + c.Symbol + number
}

// Round rounds amount half away from zero to the currency's minor unit
func (c Currency) Round(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(c.Decimals).Float64()
	return f
}

// group inserts thousands separators into the integer part of s
func group(s string) string {
	intPart, decPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, decPart = s[:dot], s[dot:]
	}

	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, intPart[i])
	}
	return string(result) + decPart
}
