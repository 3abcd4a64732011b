// Package calc holds the pure invoice arithmetic: per-line totals and the
// aggregate reduction over a document's lines.
//
// All functions are total over float64 inputs. Inputs outside their valid
// range never produce an error: a bad quantity, price, hours or rate zeroes
// the line, a bad discount or VAT rate is treated as 0.
// No rounding happens here; currency rounding is a presentation concern.
package calc

import (
	"github.com/andy/billdraft/internal/domain"
)

// Breakdown is the intermediate arithmetic of a single standard line
type Breakdown struct {
	Subtotal float64
	Discount float64
	Net      float64
	VAT      float64
	Total    float64
}

// Line computes the full breakdown of a standard line.
// A non-positive quantity or negative price yields a zero Breakdown.
// A discount outside [0,100] and a negative VAT rate count as 0.
func Line(quantity, unitPrice, discountPercent, vatPercent float64) Breakdown {
	if quantity <= 0 || unitPrice < 0 {
		return Breakdown{}
	}
	if discountPercent < 0 || discountPercent > 100 {
		discountPercent = 0
	}
	if vatPercent < 0 {
		vatPercent = 0
	}

	subtotal := quantity * unitPrice
	discount := subtotal * (discountPercent / 100)
	net := subtotal - discount
	vat := net * (vatPercent / 100)

	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Net:      net,
		VAT:      vat,
		Total:    net + vat,
	}
}

// LineTotal returns the tax-inclusive total of a standard line
func LineTotal(quantity, unitPrice, discountPercent, vatPercent float64) float64 {
	return Line(quantity, unitPrice, discountPercent, vatPercent).Total
}

// HourlyTotal returns hours x rate, or 0 when either input is out of range
func HourlyTotal(hours, rate float64) float64 {
	if hours <= 0 || rate < 0 {
		return 0
	}
	return hours * rate
}

// ItemTotal is LineTotal over a domain line item
func ItemTotal(item domain.LineItem) float64 {
	return LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercent, item.VATPercent)
}

// HourlyItemTotal is HourlyTotal over a domain hourly item
func HourlyItemTotal(item domain.HourlyItem) float64 {
	return HourlyTotal(item.Hours, item.HourlyRate)
}

// Aggregate reduces all lines of a document into its totals.
//
// Standard lines feed subtotal (net), discount and VAT. Hourly lines only
// feed the subtotal: they carry neither discount nor VAT.
// The result is recomputed from the raw inputs on every call.
func Aggregate(items []domain.LineItem, hourly []domain.HourlyItem) domain.Totals {
	var t domain.Totals

	for _, item := range items {
		b := Line(item.Quantity, item.UnitPrice, item.DiscountPercent, item.VATPercent)
		t.SubtotalBeforeTax += b.Net
		t.TotalDiscount += b.Discount
		t.TotalVAT += b.VAT
	}

	for _, h := range hourly {
		t.SubtotalBeforeTax += HourlyTotal(h.Hours, h.HourlyRate)
	}

	t.TotalWithTax = t.SubtotalBeforeTax + t.TotalVAT
	return t
}
