package ledger

import (
	"sort"
	"time"

	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchKey identifies one traceable lot of a product in one warehouse.
type BatchKey struct {
	BatchNumber string
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
}

// ItemKey identifies a (product, warehouse) stock position, batched or not.
type ItemKey struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
}

// BatchState is the derived position of a batch. It is a projection of the
// event stream, never a source of truth.
type BatchState struct {
	BatchKey
	Quantity     decimal.Decimal
	TotalValue   decimal.Decimal
	ReceivedDate time.Time
	ExpiryDate   *time.Time

	// Tie-break for ReceivedDate when two check-ins share a date.
	receivedEventID string
}

// Filter restricts which postings contribute to a reduction.
type Filter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	BatchNumber string
}

func (f Filter) matches(productID, warehouseID uuid.UUID, batchNumber string) bool {
	if f.ProductID != nil && *f.ProductID != productID {
		return false
	}
	if f.WarehouseID != nil && *f.WarehouseID != warehouseID {
		return false
	}
	if f.BatchNumber != "" && f.BatchNumber != batchNumber {
		return false
	}
	return true
}

// posting is one warehouse-side effect of an event. A transfer expands into
// an outflow at the source and an inflow at the target, so it never changes
// the system-wide quantity, only its warehouse attribution.
type posting struct {
	warehouseID uuid.UUID
	productID   uuid.UUID
	batchNumber string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	date        time.Time
	eventID     string
	expiryDate  *time.Time
}

func explode(e *model.TransactionEvent) (inflow, outflow *posting) {
	p := posting{
		productID:   e.ProductID,
		batchNumber: e.BatchNumber,
		quantity:    e.Quantity,
		unitPrice:   e.UnitPrice,
		date:        e.TransactionDate,
		eventID:     e.ID.String(),
		expiryDate:  e.ExpiryDate,
	}

	switch e.Type {
	case model.EventCheckIn:
		in := p
		in.warehouseID = *e.TargetWarehouseID
		return &in, nil
	case model.EventCheckOut:
		out := p
		out.warehouseID = *e.SourceWarehouseID
		return nil, &out
	case model.EventTransfer:
		in, out := p, p
		in.warehouseID = *e.TargetWarehouseID
		out.warehouseID = *e.SourceWarehouseID
		return &in, &out
	case model.EventAdjustment:
		if e.TargetWarehouseID != nil {
			in := p
			in.warehouseID = *e.TargetWarehouseID
			return &in, nil
		}
		out := p
		out.warehouseID = *e.SourceWarehouseID
		return nil, &out
	}
	return nil, nil
}

// transferMove is a transfer's paired postings, applied as one unit so value
// leaves the source and arrives at the target at the same price.
type transferMove struct {
	in  *posting
	out *posting
}

// Reduce folds a consistent snapshot of the event stream into derived batch
// states and per-item net quantities. The fold is idempotent and insensitive
// to input ordering: check-in inflows apply first, then transfers in
// (date, event ID) order, then outflows; ReceivedDate ties are broken
// deterministically by event ID.
//
// Outflows drain value at the aggregate's average unit price rather than the
// event's own price, since check-outs carry no valuation. A transfer credits
// the target at the same aggregate price it drains from the source, so it
// can never change the system-wide value; the event's own price is only a
// fallback when the source batch is not in scope. Batch keys whose net
// quantity ends up at or below zero are dropped from the result; the
// underlying events of course remain in the ledger.
func Reduce(events []model.TransactionEvent, f Filter) (map[BatchKey]BatchState, map[ItemKey]decimal.Decimal) {
	var inflows, outflows []*posting
	var moves []transferMove
	for i := range events {
		in, out := explode(&events[i])
		if in != nil && out != nil {
			moves = append(moves, transferMove{in: in, out: out})
			continue
		}
		if in != nil && f.matches(in.productID, in.warehouseID, in.batchNumber) {
			inflows = append(inflows, in)
		}
		if out != nil && f.matches(out.productID, out.warehouseID, out.batchNumber) {
			outflows = append(outflows, out)
		}
	}

	sort.Slice(moves, func(i, j int) bool {
		if !moves[i].out.date.Equal(moves[j].out.date) {
			return moves[i].out.date.Before(moves[j].out.date)
		}
		return moves[i].out.eventID < moves[j].out.eventID
	})

	batches := make(map[BatchKey]BatchState)
	items := make(map[ItemKey]decimal.Decimal)

	applyInflow := func(p *posting, unitPrice decimal.Decimal) {
		items[ItemKey{p.productID, p.warehouseID}] = items[ItemKey{p.productID, p.warehouseID}].Add(p.quantity)

		if p.batchNumber == "" {
			return
		}
		key := BatchKey{p.batchNumber, p.productID, p.warehouseID}
		st, ok := batches[key]
		if !ok {
			st = BatchState{BatchKey: key}
		}
		st.Quantity = st.Quantity.Add(p.quantity)
		st.TotalValue = st.TotalValue.Add(unitPrice.Mul(p.quantity))
		if !ok || earlier(p, st) {
			st.ReceivedDate = p.date
			st.receivedEventID = p.eventID
		}
		if st.ExpiryDate == nil && p.expiryDate != nil {
			st.ExpiryDate = p.expiryDate
		}
		batches[key] = st
	}

	applyOutflow := func(p *posting) {
		items[ItemKey{p.productID, p.warehouseID}] = items[ItemKey{p.productID, p.warehouseID}].Sub(p.quantity)

		if p.batchNumber == "" {
			return
		}
		key := BatchKey{p.batchNumber, p.productID, p.warehouseID}
		st, ok := batches[key]
		if !ok {
			st = BatchState{BatchKey: key}
		}
		if st.Quantity.IsPositive() {
			aggregateUnit := st.TotalValue.Div(st.Quantity)
			st.TotalValue = st.TotalValue.Sub(aggregateUnit.Mul(p.quantity))
		}
		st.Quantity = st.Quantity.Sub(p.quantity)
		batches[key] = st
	}

	for _, p := range inflows {
		applyInflow(p, p.unitPrice)
	}

	for _, m := range moves {
		srcInScope := f.matches(m.out.productID, m.out.warehouseID, m.out.batchNumber)
		dstInScope := f.matches(m.in.productID, m.in.warehouseID, m.in.batchNumber)

		// The price at which value crosses warehouses. Taken from the source
		// batch so a transfer posted with a zero or stale price cannot
		// inflate or destroy valuation.
		unitPrice := m.in.unitPrice
		if srcInScope && m.out.batchNumber != "" {
			srcKey := BatchKey{m.out.batchNumber, m.out.productID, m.out.warehouseID}
			if st, ok := batches[srcKey]; ok && st.Quantity.IsPositive() {
				unitPrice = st.TotalValue.Div(st.Quantity)
			}
		}

		if srcInScope {
			applyOutflow(m.out)
		}
		if dstInScope {
			applyInflow(m.in, unitPrice)
		}
	}

	for _, p := range outflows {
		applyOutflow(p)
	}

	for key, st := range batches {
		if !st.Quantity.IsPositive() {
			delete(batches, key)
		}
	}

	return batches, items
}

// earlier reports whether posting p should win ReceivedDate over the current
// state: strictly earlier date, or same date with a smaller event ID.
func earlier(p *posting, st BatchState) bool {
	if p.date.Before(st.ReceivedDate) {
		return true
	}
	return p.date.Equal(st.ReceivedDate) && p.eventID < st.receivedEventID
}
