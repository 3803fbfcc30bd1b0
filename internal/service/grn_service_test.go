package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/service"
)

func poLine(ordered, received int64) *model.POLineItem {
	return &model.POLineItem{
		Product:          model.Product{SKU: "SKU-001"},
		QuantityOrdered:  decimal.NewFromInt(ordered),
		QuantityReceived: decimal.NewFromInt(received),
	}
}

func grnItem(accepted int64) *model.GRNItem {
	return &model.GRNItem{
		QuantityReceived: decimal.NewFromInt(accepted),
		QuantityAccepted: decimal.NewFromInt(accepted),
	}
}

func TestValidateReceipt_WithinPendingIsClean(t *testing.T) {
	// Ordered 100, already received 60, accepting 40 more fills the line exactly.
	warnings, blocking := service.ValidateReceipt(poLine(100, 60), grnItem(40), model.DefaultMatchingSettings())

	assert.Empty(t, warnings)
	assert.False(t, blocking)
}

func TestValidateReceipt_OverReceiptBlockedByDefault(t *testing.T) {
	// Pending is 40; accepting 50 is an over-receipt and the default policy
	// does not authorize it.
	warnings, blocking := service.ValidateReceipt(poLine(100, 60), grnItem(50), model.DefaultMatchingSettings())

	require.Len(t, warnings, 1)
	assert.Equal(t, "line SKU-001: accepted quantity 50 exceeds pending quantity 40", warnings[0])
	assert.True(t, blocking)
}

func TestValidateReceipt_OverReceiptWarnsWhenAllowed(t *testing.T) {
	settings := model.DefaultMatchingSettings()
	settings.AllowOverReceipt = true

	warnings, blocking := service.ValidateReceipt(poLine(100, 60), grnItem(50), settings)

	require.Len(t, warnings, 1, "the warning is still surfaced when over-receipt is allowed")
	assert.False(t, blocking)
}

func TestValidateReceipt_RejectedQuantityDoesNotCountAgainstPending(t *testing.T) {
	// 50 received but only 40 accepted: the 10 rejected never post, so the
	// line is not over-received.
	item := &model.GRNItem{
		QuantityReceived: decimal.NewFromInt(50),
		QuantityAccepted: decimal.NewFromInt(40),
		QuantityRejected: decimal.NewFromInt(10),
	}

	warnings, blocking := service.ValidateReceipt(poLine(100, 60), item, model.DefaultMatchingSettings())

	assert.Empty(t, warnings)
	assert.False(t, blocking)
}

func TestValidateReceipt_FallsBackToLineIDWithoutSKU(t *testing.T) {
	line := poLine(10, 0)
	line.Product = model.Product{}

	warnings, _ := service.ValidateReceipt(line, grnItem(20), model.DefaultMatchingSettings())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], line.ID.String())
}

func TestOverReceiptError_Message(t *testing.T) {
	err := &service.OverReceiptError{Warnings: []string{"line A", "line B"}}
	assert.Equal(t, "over-receipt not allowed: 2 line(s) exceed pending quantity", err.Error())
}
