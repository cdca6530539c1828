// Package billing holds the pure invoice rules: money arithmetic, numbering,
// item naming and status policy. Nothing here touches storage.
package billing

import (
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// GSTRate is the flat goods and services tax applied when GST is enabled.
var GSTRate = decimal.RequireFromString("0.18")

// Totals is the derived money summary of an invoice.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotal is quantity × unit rate, rounded to 2 places.
func LineTotal(quantity int, unitRate decimal.Decimal) decimal.Decimal {
	return unitRate.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Tax returns the GST on subtotal, rounded half-up to 2 places, or zero.
func Tax(subtotal decimal.Decimal, gstEnabled bool) decimal.Decimal {
	if !gstEnabled {
		return decimal.Zero
	}
	return subtotal.Mul(GSTRate).Round(2)
}

// ComputeTotals derives the invoice totals from scratch. Stored line totals are
// ignored; each line is recomputed from quantity and rate.
func ComputeTotals(items []entity.InvoiceItem, gstEnabled bool) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineTotal(it.Quantity, it.UnitRate))
	}
	tax := Tax(subtotal, gstEnabled)
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// Apply recomputes every line total and the invoice totals in place.
func Apply(inv *entity.Invoice) Totals {
	for i := range inv.Items {
		inv.Items[i].LineTotal = LineTotal(inv.Items[i].Quantity, inv.Items[i].UnitRate)
	}
	t := ComputeTotals(inv.Items, inv.GSTEnabled)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.GrandTotal = t.GrandTotal
	return t
}

// FormatMoney renders an amount with the currency symbol and exactly two decimals.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
