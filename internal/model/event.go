package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventCheckIn    EventType = "CHECK_IN"
	EventCheckOut   EventType = "CHECK_OUT"
	EventTransfer   EventType = "TRANSFER"
	EventAdjustment EventType = "ADJUSTMENT"
)

// TransactionEvent is a single movement in the inventory ledger. Events are
// append-only: once persisted they are never updated or deleted, and all
// stock figures are derived by folding over them.
type TransactionEvent struct {
	BaseModel
	Type      EventType `gorm:"type:varchar(20);not null;index" json:"type" validate:"required,oneof=CHECK_IN CHECK_OUT TRANSFER ADJUSTMENT"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product   `json:"product,omitempty" validate:"-"`

	// Warehouse sides. Which of these are required depends on Type, see Validate.
	SourceWarehouseID *uuid.UUID `gorm:"type:uuid;index" json:"source_warehouse_id,omitempty"`
	TargetWarehouseID *uuid.UUID `gorm:"type:uuid;index" json:"target_warehouse_id,omitempty"`

	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`

	// Batch metadata, optional. Events without a batch number still affect
	// per-item totals but never materialize a batch.
	BatchNumber string     `gorm:"type:varchar(100);index" json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date" validate:"required"`
	Reference       string    `gorm:"type:varchar(255)" json:"reference,omitempty"`
	ActorID         string    `gorm:"type:varchar(255);not null" json:"actor_id"`
}

var (
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrNegativeUnitPrice   = errors.New("unit price cannot be negative")
	ErrMissingSource       = errors.New("source warehouse is required for this event type")
	ErrMissingTarget       = errors.New("target warehouse is required for this event type")
	ErrUnexpectedSource    = errors.New("source warehouse is not allowed for this event type")
	ErrUnexpectedTarget    = errors.New("target warehouse is not allowed for this event type")
	ErrAdjustmentSides     = errors.New("adjustment must carry exactly one warehouse side")
	ErrSameWarehouse       = errors.New("transfer source and target warehouses must differ")
)

// Validate enforces the per-type required-field set at ingestion. A malformed
// event must never reach the ledger, so the reducer can assume a well-formed
// stream.
func (e *TransactionEvent) Validate() error {
	if !e.Quantity.IsPositive() {
		return ErrNonPositiveQuantity
	}
	if e.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}

	switch e.Type {
	case EventCheckIn:
		if e.TargetWarehouseID == nil {
			return ErrMissingTarget
		}
		if e.SourceWarehouseID != nil {
			return ErrUnexpectedSource
		}
	case EventCheckOut:
		if e.SourceWarehouseID == nil {
			return ErrMissingSource
		}
		if e.TargetWarehouseID != nil {
			return ErrUnexpectedTarget
		}
	case EventTransfer:
		if e.SourceWarehouseID == nil {
			return ErrMissingSource
		}
		if e.TargetWarehouseID == nil {
			return ErrMissingTarget
		}
		if *e.SourceWarehouseID == *e.TargetWarehouseID {
			return ErrSameWarehouse
		}
	case EventAdjustment:
		// Target-side adjustment is a positive correction, source-side a
		// negative one. Exactly one side must be set.
		if (e.SourceWarehouseID == nil) == (e.TargetWarehouseID == nil) {
			return ErrAdjustmentSides
		}
	default:
		return errors.New("unknown event type: " + string(e.Type))
	}

	return nil
}
