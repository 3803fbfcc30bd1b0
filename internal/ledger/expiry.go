package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpiryStatus string

const (
	ExpiryNone         ExpiryStatus = "NONE"
	ExpiryExpired      ExpiryStatus = "EXPIRED"
	ExpiryExpiringSoon ExpiryStatus = "EXPIRING_SOON"
	ExpiryValid        ExpiryStatus = "VALID"
)

// ExpiringSoonWindowDays is the lookahead for the EXPIRING_SOON tier. The
// window is half-open: a batch expiring exactly this many days out is still
// VALID.
const ExpiringSoonWindowDays = 30

// ClassifyExpiry maps a batch expiry date onto a status tier relative to now.
// Both sides are normalized to calendar days so the answer cannot flap
// within a day.
func ClassifyExpiry(expiry *time.Time, now time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryNone
	}

	e := dateOnly(*expiry)
	today := dateOnly(now)

	switch {
	case e.Before(today):
		return ExpiryExpired
	case e.Before(today.AddDate(0, 0, ExpiringSoonWindowDays)):
		return ExpiryExpiringSoon
	default:
		return ExpiryValid
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BatchSummary aggregates a derived batch view for reporting.
type BatchSummary struct {
	UniqueBatches     int             `json:"unique_batches"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ExpiredCount      int             `json:"expired_count"`
	ExpiringSoonCount int             `json:"expiring_soon_count"`
}

// Summarize computes aggregate counts over a reduced batch map.
func Summarize(batches map[BatchKey]BatchState, now time.Time) BatchSummary {
	s := BatchSummary{
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	for _, st := range batches {
		s.UniqueBatches++
		s.TotalQuantity = s.TotalQuantity.Add(st.Quantity)
		s.TotalValue = s.TotalValue.Add(st.TotalValue)
		switch ClassifyExpiry(st.ExpiryDate, now) {
		case ExpiryExpired:
			s.ExpiredCount++
		case ExpiryExpiringSoon:
			s.ExpiringSoonCount++
		}
	}
	return s
}
