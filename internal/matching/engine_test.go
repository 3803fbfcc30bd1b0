package matching_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-procure-ledger/internal/matching"
	"go-procure-ledger/internal/model"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func settings(price, qty, tax, total string) *model.MatchingSettings {
	return &model.MatchingSettings{
		PriceTolerancePct:    d(price),
		QuantityTolerancePct: d(qty),
		TaxTolerancePct:      d(tax),
		TotalTolerancePct:    d(total),
	}
}

func line(price, qty, tax, total string) matching.LineValues {
	return matching.LineValues{
		UnitPrice: d(price),
		Quantity:  d(qty),
		TaxAmount: d(tax),
		LineTotal: d(total),
	}
}

func reference(price, qty, tax, total string) matching.Reference {
	return matching.Reference{
		UnitPrice:      d(price),
		Quantity:       d(qty),
		TaxAmount:      d(tax),
		LineTotal:      d(total),
		HasApprovedGRN: true,
	}
}

func TestEvaluate_VarianceAtToleranceBoundaryIsWithin(t *testing.T) {
	// 105 vs 100 is exactly 5% off; a 5% tolerance includes the boundary.
	s := settings("5", "5", "5", "5")

	res := matching.Evaluate(line("105", "100", "100", "100"), reference("100", "100", "100", "100"), s)

	assert.Equal(t, "5", res.Price.VariancePct.String())
	assert.True(t, res.Price.WithinTolerance)
	assert.True(t, res.WithinTolerance)
}

func TestEvaluate_VarianceJustAboveToleranceIsOut(t *testing.T) {
	s := settings("5", "5", "5", "5")

	res := matching.Evaluate(line("105.01", "100", "100", "100"), reference("100", "100", "100", "100"), s)

	assert.False(t, res.Price.WithinTolerance)
	assert.False(t, res.WithinTolerance, "a single breached field fails the whole line")
	assert.True(t, res.Quantity.WithinTolerance)
	assert.False(t, res.Blocked, "a tolerance breach is a review outcome, not a block")
}

func TestEvaluate_StrictModeZeroesAllTolerances(t *testing.T) {
	s := settings("5", "5", "5", "5")
	s.StrictMatchingMode = true

	exact := matching.Evaluate(line("100", "10", "5", "1005"), reference("100", "10", "5", "1005"), s)
	assert.True(t, exact.WithinTolerance, "exact match still passes in strict mode")

	off := matching.Evaluate(line("100.01", "10", "5", "1005"), reference("100", "10", "5", "1005"), s)
	assert.False(t, off.WithinTolerance)
}

func TestEvaluate_ZeroReference(t *testing.T) {
	s := settings("5", "5", "5", "5")

	// Zero tax invoiced against a zero tax reference is a perfect match.
	res := matching.Evaluate(line("100", "10", "0", "1000"), reference("100", "10", "0", "1000"), s)
	assert.True(t, res.Tax.WithinTolerance)
	assert.Equal(t, "0", res.Tax.VariancePct.String())

	// Any non-zero value against a zero reference can never be within tolerance.
	res = matching.Evaluate(line("100", "10", "0.01", "1000"), reference("100", "10", "0", "1000"), s)
	assert.False(t, res.Tax.WithinTolerance)
	assert.Equal(t, "10000", res.Tax.VariancePct.String())
}

func TestEvaluate_RequireGRNBlocksUnreceivedInvoice(t *testing.T) {
	s := settings("5", "5", "5", "5")
	s.RequireGRNForInvoice = true

	ref := reference("100", "10", "5", "1005")
	ref.HasApprovedGRN = false

	res := matching.Evaluate(line("100", "10", "5", "1005"), ref, s)

	assert.True(t, res.Blocked)
	assert.NotEmpty(t, res.BlockReason)
	assert.False(t, res.WithinTolerance, "a blocked line carries no match verdict")
}

func TestEvaluate_GRNNotRequiredWhenDisabled(t *testing.T) {
	s := settings("5", "5", "5", "5")
	s.RequireGRNForInvoice = false

	ref := reference("100", "10", "5", "1005")
	ref.HasApprovedGRN = false

	res := matching.Evaluate(line("100", "10", "5", "1005"), ref, s)

	assert.False(t, res.Blocked)
	assert.True(t, res.WithinTolerance)
}

func TestEvaluate_AutoApprove(t *testing.T) {
	s := settings("5", "5", "5", "5")

	res := matching.Evaluate(line("100", "10", "5", "1005"), reference("100", "10", "5", "1005"), s)
	assert.False(t, res.AutoApproved, "auto-approval stays off unless enabled")

	s.AutoApproveMatched = true
	res = matching.Evaluate(line("100", "10", "5", "1005"), reference("100", "10", "5", "1005"), s)
	assert.True(t, res.AutoApproved)

	res = matching.Evaluate(line("120", "10", "5", "1005"), reference("100", "10", "5", "1005"), s)
	assert.False(t, res.AutoApproved, "breached lines are never auto-approved")
}

func TestEvaluate_NegativeReferenceUsesAbsoluteVariance(t *testing.T) {
	// Credit-note style lines: variance is computed on magnitudes.
	s := settings("5", "5", "5", "5")

	res := matching.Evaluate(line("100", "10", "5", "-98"), reference("100", "10", "5", "-100"), s)

	assert.Equal(t, "2", res.Total.VariancePct.String())
	assert.True(t, res.Total.WithinTolerance)
}

func TestEvaluate_DefaultSettings(t *testing.T) {
	s := model.DefaultMatchingSettings()

	// 1.5% price variance sits inside the default 2% tolerance.
	res := matching.Evaluate(line("101.5", "100", "10", "10160"), reference("100", "100", "10", "10160"), s)

	assert.True(t, res.Price.WithinTolerance)
	assert.True(t, res.WithinTolerance)
}
