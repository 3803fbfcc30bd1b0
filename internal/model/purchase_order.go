package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	POStatusOpen      PurchaseOrderStatus = "OPEN"
	POStatusCompleted PurchaseOrderStatus = "COMPLETED"
	POStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// PurchaseOrder is the commitment receipts and invoices reconcile against.
type PurchaseOrder struct {
	BaseModel
	OrderNumber string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number" validate:"required"`
	VendorName  string              `gorm:"type:varchar(255);not null" json:"vendor_name" validate:"required"`
	WarehouseID uuid.UUID           `gorm:"type:uuid;not null;index" json:"warehouse_id" validate:"uuid_required"`
	Warehouse   Warehouse           `json:"warehouse,omitempty" validate:"-"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	OrderDate   time.Time           `gorm:"not null" json:"order_date" validate:"required"`
	Notes       string              `gorm:"type:text" json:"notes,omitempty"`
	LineItems   []POLineItem        `gorm:"foreignKey:PurchaseOrderID" json:"line_items,omitempty" validate:"dive"`
}

// POLineItem tracks ordered vs received quantity for one product on a PO.
// QuantityReceived only ever moves forward, and only when a GRN covering the
// line is approved.
type POLineItem struct {
	BaseModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product          Product         `json:"product,omitempty" validate:"-"`
	QuantityOrdered  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_ordered" validate:"required"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_received"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
}

// QuantityPending is the remainder still expected on this line. It can only
// go negative through an explicitly authorized over-receipt.
func (l *POLineItem) QuantityPending() decimal.Decimal {
	return l.QuantityOrdered.Sub(l.QuantityReceived)
}

// LineTotal is the ordered value including tax, used as the matching
// reference for invoice totals.
func (l *POLineItem) LineTotal() decimal.Decimal {
	return l.QuantityOrdered.Mul(l.UnitPrice).Add(l.TaxAmount)
}
