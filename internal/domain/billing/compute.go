// Package billing holds the invoice computation and canonicalization rules
// shared by both document serializers.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
)

// ComputeLine refreshes the derived fields of a single line:
//
//	Amount    = Quantity * UnitPrice
//	VatAmount = Amount * VatRate / 100
//
// No rounding is applied here; full decimal precision is carried until the
// serializers format amounts to two places. Negative or out-of-range inputs
// are propagated arithmetically, never clamped.
func ComputeLine(line *entity.InvoiceLine) {
	line.Amount = line.Quantity.Mul(line.UnitPrice)
	// Shift(-2) is an exact scale change, unlike Div which is subject to
	// decimal.DivisionPrecision.
	line.VatAmount = line.Amount.Mul(line.VatRate).Shift(-2)
}

// Compute refreshes every derived field of the invoice: all line amounts and
// the three document totals. Caller-supplied values in those fields are
// overwritten, so a stale or hand-edited invoice can never reach a serializer
// with inconsistent totals. Compute must run after any edit to a line's
// quantity, unit price or VAT rate and before either serializer consumes the
// value.
func Compute(inv *entity.Invoice) {
	subtotal := decimal.Zero
	totalVat := decimal.Zero
	for i := range inv.Lines {
		ComputeLine(&inv.Lines[i])
		subtotal = subtotal.Add(inv.Lines[i].Amount)
		totalVat = totalVat.Add(inv.Lines[i].VatAmount)
	}
	inv.Subtotal = subtotal
	inv.TotalVat = totalVat
	inv.Total = subtotal.Add(totalVat)
}

// RepresentativeVatRate returns the VAT percentage carried by the document
// level TaxSubtotal: the rate of the first line with a non-zero VAT rate, or
// zero when no line is taxed.
//
// This is a deliberate single-tax-category simplification: invoices mixing
// several VAT rates get one representative rate at document level. Consumers
// depending on the existing shape must not see a multi-subtotal document.
func RepresentativeVatRate(inv *entity.Invoice) decimal.Decimal {
	for i := range inv.Lines {
		if !inv.Lines[i].VatRate.IsZero() {
			return inv.Lines[i].VatRate
		}
	}
	return decimal.Zero
}
