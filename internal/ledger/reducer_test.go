package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-procure-ledger/internal/ledger"
	"go-procure-ledger/internal/model"
)

var (
	productP1   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	warehouseW1 = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	warehouseW2 = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checkIn(id string, product, warehouse uuid.UUID, qty, price int64, batch string, when time.Time) model.TransactionEvent {
	e := model.TransactionEvent{
		Type:              model.EventCheckIn,
		ProductID:         product,
		TargetWarehouseID: &warehouse,
		Quantity:          decimal.NewFromInt(qty),
		UnitPrice:         decimal.NewFromInt(price),
		BatchNumber:       batch,
		TransactionDate:   when,
	}
	e.ID = uuid.MustParse(id)
	return e
}

func checkOut(id string, product, warehouse uuid.UUID, qty int64, batch string, when time.Time) model.TransactionEvent {
	e := model.TransactionEvent{
		Type:              model.EventCheckOut,
		ProductID:         product,
		SourceWarehouseID: &warehouse,
		Quantity:          decimal.NewFromInt(qty),
		BatchNumber:       batch,
		TransactionDate:   when,
	}
	e.ID = uuid.MustParse(id)
	return e
}

func transfer(id string, product, from, to uuid.UUID, qty int64, batch string, when time.Time) model.TransactionEvent {
	e := model.TransactionEvent{
		Type:              model.EventTransfer,
		ProductID:         product,
		SourceWarehouseID: &from,
		TargetWarehouseID: &to,
		Quantity:          decimal.NewFromInt(qty),
		UnitPrice:         decimal.NewFromInt(10),
		BatchNumber:       batch,
		TransactionDate:   when,
	}
	e.ID = uuid.MustParse(id)
	return e
}

func TestReduce_BatchNetQuantityAndReceivedDate(t *testing.T) {
	// GIVEN: batch B1 receives 100 then 20 on different dates, then 30 go out
	// THEN: net quantity is 90 and received_date is the earliest check-in
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, 20, 12, "B1", date(2024, time.February, 15)),
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 100, 10, "B1", date(2024, time.January, 1)),
		checkOut("00000000-0000-0000-0000-000000000003", productP1, warehouseW1, 30, "B1", date(2024, time.March, 1)),
	}

	batches, items := ledger.Reduce(events, ledger.Filter{})

	key := ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW1}
	st, ok := batches[key]
	require.True(t, ok, "batch B1 should be materialized")
	assert.Equal(t, "90", st.Quantity.String())
	assert.Equal(t, date(2024, time.January, 1), st.ReceivedDate, "earliest receipt wins")

	itemQty := items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW1}]
	assert.Equal(t, "90", itemQty.String())
}

func TestReduce_Idempotent_OrderInsensitive(t *testing.T) {
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 100, 10, "B1", date(2024, time.January, 1)),
		checkOut("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, 40, "B1", date(2024, time.January, 5)),
		checkIn("00000000-0000-0000-0000-000000000003", productP1, warehouseW1, 25, 11, "B1", date(2024, time.January, 3)),
	}
	reversed := []model.TransactionEvent{events[2], events[1], events[0]}

	b1, i1 := ledger.Reduce(events, ledger.Filter{})
	b2, i2 := ledger.Reduce(reversed, ledger.Filter{})
	b3, i3 := ledger.Reduce(events, ledger.Filter{})

	assert.Equal(t, b1, b2, "reduction must not depend on input order")
	assert.Equal(t, b1, b3, "re-running reduce must yield identical results")
	assert.Equal(t, i1, i2)
	assert.Equal(t, i1, i3)
}

func TestReduce_ReceivedDateTieBreakByEventID(t *testing.T) {
	sameDay := date(2024, time.June, 1)
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-00000000000b", productP1, warehouseW1, 10, 5, "B1", sameDay),
		checkIn("00000000-0000-0000-0000-00000000000a", productP1, warehouseW1, 10, 5, "B1", sameDay),
	}
	reversed := []model.TransactionEvent{events[1], events[0]}

	b1, _ := ledger.Reduce(events, ledger.Filter{})
	b2, _ := ledger.Reduce(reversed, ledger.Filter{})
	assert.Equal(t, b1, b2, "same-date tie must break deterministically")
}

func TestReduce_TransferMovesAttributionNotTotal(t *testing.T) {
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 100, 10, "B1", date(2024, time.January, 1)),
		transfer("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, warehouseW2, 40, "B1", date(2024, time.January, 10)),
	}

	batches, items := ledger.Reduce(events, ledger.Filter{})

	src := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW1}]
	dst := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW2}]
	assert.Equal(t, "60", src.Quantity.String())
	assert.Equal(t, "40", dst.Quantity.String())

	total := items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW1}].
		Add(items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW2}])
	assert.Equal(t, "100", total.String(), "transfer never changes system-wide quantity")
}

func TestReduce_TransferValuesAtSourceAggregatePrice(t *testing.T) {
	// A transfer carries no trustworthy price of its own: value leaves the
	// source and arrives at the target at the source batch's aggregate unit
	// price, so a zero-priced transfer cannot destroy valuation.
	tr := transfer("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, warehouseW2, 40, "B1", date(2024, time.January, 10))
	tr.UnitPrice = decimal.Zero

	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 100, 10, "B1", date(2024, time.January, 1)),
		tr,
	}

	batches, _ := ledger.Reduce(events, ledger.Filter{})

	src := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW1}]
	dst := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW2}]
	assert.Equal(t, "600", src.TotalValue.String())
	assert.Equal(t, "400", dst.TotalValue.String())
	assert.Equal(t, "1000", src.TotalValue.Add(dst.TotalValue).String(), "transfer never changes system-wide value")
}

func TestReduce_DrainedBatchNotMaterialized(t *testing.T) {
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 50, 10, "B1", date(2024, time.January, 1)),
		checkOut("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, 50, "B1", date(2024, time.January, 2)),
	}

	batches, items := ledger.Reduce(events, ledger.Filter{})

	_, ok := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW1}]
	assert.False(t, ok, "fully drained batch must be filtered from the derived view")
	assert.Equal(t, "0", items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW1}].String())
}

func TestReduce_BatchlessEventsOnlyAffectItemTotals(t *testing.T) {
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 30, 10, "", date(2024, time.January, 1)),
	}

	batches, items := ledger.Reduce(events, ledger.Filter{})

	assert.Empty(t, batches, "events without a batch number never materialize a batch")
	assert.Equal(t, "30", items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW1}].String())
}

func TestReduce_CheckOutDrainsValueAtAggregatePrice(t *testing.T) {
	// 100 @ 10 = 1000 total value; checking 30 out removes 30 * 10,
	// regardless of any price on the check-out event.
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 100, 10, "B1", date(2024, time.January, 1)),
		checkOut("00000000-0000-0000-0000-000000000002", productP1, warehouseW1, 30, "B1", date(2024, time.January, 5)),
	}

	batches, _ := ledger.Reduce(events, ledger.Filter{})
	st := batches[ledger.BatchKey{BatchNumber: "B1", ProductID: productP1, WarehouseID: warehouseW1}]
	assert.Equal(t, "700", st.TotalValue.String())
}

func TestReduce_AdjustmentSides(t *testing.T) {
	up := model.TransactionEvent{
		Type:              model.EventAdjustment,
		ProductID:         productP1,
		TargetWarehouseID: &warehouseW1,
		Quantity:          decimal.NewFromInt(5),
		TransactionDate:   date(2024, time.January, 1),
	}
	up.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	down := model.TransactionEvent{
		Type:              model.EventAdjustment,
		ProductID:         productP1,
		SourceWarehouseID: &warehouseW1,
		Quantity:          decimal.NewFromInt(2),
		TransactionDate:   date(2024, time.January, 2),
	}
	down.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	_, items := ledger.Reduce([]model.TransactionEvent{up, down}, ledger.Filter{})
	assert.Equal(t, "3", items[ledger.ItemKey{ProductID: productP1, WarehouseID: warehouseW1}].String())
}

func TestReduce_FilterByWarehouse(t *testing.T) {
	events := []model.TransactionEvent{
		checkIn("00000000-0000-0000-0000-000000000001", productP1, warehouseW1, 10, 1, "B1", date(2024, time.January, 1)),
		checkIn("00000000-0000-0000-0000-000000000002", productP1, warehouseW2, 20, 1, "B2", date(2024, time.January, 1)),
	}

	batches, items := ledger.Reduce(events, ledger.Filter{WarehouseID: &warehouseW2})

	assert.Len(t, batches, 1)
	assert.Len(t, items, 1)
	_, ok := batches[ledger.BatchKey{BatchNumber: "B2", ProductID: productP1, WarehouseID: warehouseW2}]
	assert.True(t, ok)
}
