package matching

import (
	"github.com/shopspring/decimal"

	"go-procure-ledger/internal/model"
)

// LineValues are the four matched figures of an invoice line.
type LineValues struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Reference carries the values an invoice line is matched against. Price,
// tax and total come from the PO line; quantity comes from the approved GRN
// when one covers the line (the invoice should bill what was received), else
// from the ordered quantity.
type Reference struct {
	UnitPrice      decimal.Decimal
	Quantity       decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
	HasApprovedGRN bool
}

// FieldResult is the computed variance for one matched field.
type FieldResult struct {
	InvoiceValue    decimal.Decimal `json:"invoice_value"`
	ReferenceValue  decimal.Decimal `json:"reference_value"`
	VariancePct     decimal.Decimal `json:"variance_pct"`
	WithinTolerance bool            `json:"within_tolerance"`
}

// Result is the computed match decision for one invoice line. It is derived
// on demand, never persisted; a recorded manual override supersedes it.
type Result struct {
	Blocked     bool        `json:"blocked"`
	BlockReason string      `json:"block_reason,omitempty"`
	Price       FieldResult `json:"price"`
	Quantity    FieldResult `json:"quantity"`
	Tax         FieldResult `json:"tax"`
	Total       FieldResult `json:"total"`

	WithinTolerance bool `json:"within_tolerance"`
	AutoApproved    bool `json:"auto_approved"`
}

const blockReasonNoGRN = "no approved GRN exists for the invoiced purchase order"

// maxVariancePct stands in for the undefined variance of a zero reference
// with a non-zero invoice value. It is never within any tolerance.
var maxVariancePct = decimal.NewFromInt(10000)

// Evaluate compares an invoice line against its reference under the given
// tolerance settings. Variance exactly at the tolerance is within tolerance;
// strict mode treats every tolerance as zero. A tolerance breach is a normal
// outcome routed to manual review, not an error.
func Evaluate(invoice LineValues, ref Reference, settings *model.MatchingSettings) Result {
	if settings.RequireGRNForInvoice && !ref.HasApprovedGRN {
		return Result{Blocked: true, BlockReason: blockReasonNoGRN}
	}

	priceTol := settings.PriceTolerancePct
	qtyTol := settings.QuantityTolerancePct
	taxTol := settings.TaxTolerancePct
	totalTol := settings.TotalTolerancePct
	if settings.StrictMatchingMode {
		priceTol, qtyTol, taxTol, totalTol = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	}

	r := Result{
		Price:    compareField(invoice.UnitPrice, ref.UnitPrice, priceTol),
		Quantity: compareField(invoice.Quantity, ref.Quantity, qtyTol),
		Tax:      compareField(invoice.TaxAmount, ref.TaxAmount, taxTol),
		Total:    compareField(invoice.LineTotal, ref.LineTotal, totalTol),
	}
	r.WithinTolerance = r.Price.WithinTolerance &&
		r.Quantity.WithinTolerance &&
		r.Tax.WithinTolerance &&
		r.Total.WithinTolerance
	r.AutoApproved = r.WithinTolerance && settings.AutoApproveMatched
	return r
}

func compareField(invoiceValue, referenceValue, tolerancePct decimal.Decimal) FieldResult {
	f := FieldResult{InvoiceValue: invoiceValue, ReferenceValue: referenceValue}

	if referenceValue.IsZero() {
		if invoiceValue.IsZero() {
			f.VariancePct = decimal.Zero
			f.WithinTolerance = true
			return f
		}
		f.VariancePct = maxVariancePct
		f.WithinTolerance = false
		return f
	}

	f.VariancePct = invoiceValue.Sub(referenceValue).Abs().
		Div(referenceValue.Abs()).
		Mul(decimal.NewFromInt(100))
	f.WithinTolerance = f.VariancePct.LessThanOrEqual(tolerancePct)
	return f
}
