package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-procure-ledger/internal/ledger"
)

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2024, time.May, 10, 14, 30, 0, 0, time.UTC)

	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name   string
		expiry *time.Time
		want   ledger.ExpiryStatus
	}{
		{"no expiry date", nil, ledger.ExpiryNone},
		{"yesterday is expired", ptr(date(2024, time.May, 9)), ledger.ExpiryExpired},
		{"today is expiring soon, not expired", ptr(date(2024, time.May, 10)), ledger.ExpiryExpiringSoon},
		{"29 days out is expiring soon", ptr(date(2024, time.June, 8)), ledger.ExpiryExpiringSoon},
		{"exactly 30 days out is still valid", ptr(date(2024, time.June, 9)), ledger.ExpiryValid},
		{"far future is valid", ptr(date(2025, time.January, 1)), ledger.ExpiryValid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ledger.ClassifyExpiry(tc.expiry, now))
		})
	}
}

func TestClassifyExpiry_IgnoresTimeOfDay(t *testing.T) {
	// Expiry at 01:00 today, evaluated at 23:00, is not expired:
	// classification compares calendar days, not instants.
	expiry := time.Date(2024, time.May, 10, 1, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.May, 10, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, ledger.ExpiryExpiringSoon, ledger.ClassifyExpiry(&expiry, now))
}

func TestSummarize(t *testing.T) {
	now := date(2024, time.May, 10)
	expired := date(2024, time.May, 1)
	soon := date(2024, time.May, 20)
	valid := date(2024, time.December, 1)

	events := []struct {
		batch  string
		qty    int64
		expiry time.Time
	}{
		{"B-EXP", 5, expired},
		{"B-SOON", 10, soon},
		{"B-OK", 20, valid},
	}

	batches := map[ledger.BatchKey]ledger.BatchState{}
	for _, e := range events {
		exp := e.expiry
		st := ledger.BatchState{
			Quantity:   decimal.NewFromInt(e.qty),
			TotalValue: decimal.NewFromInt(e.qty * 2),
			ExpiryDate: &exp,
		}
		batches[ledger.BatchKey{BatchNumber: e.batch, ProductID: productP1, WarehouseID: warehouseW1}] = st
	}

	s := ledger.Summarize(batches, now)

	assert.Equal(t, 3, s.UniqueBatches)
	assert.Equal(t, "35", s.TotalQuantity.String())
	assert.Equal(t, "70", s.TotalValue.String())
	assert.Equal(t, 1, s.ExpiredCount)
	assert.Equal(t, 1, s.ExpiringSoonCount)
}
