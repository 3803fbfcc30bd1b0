package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a vendor bill to be matched against a purchase order and the
// goods actually received before payment is approved.
type Invoice struct {
	BaseModel
	InvoiceNumber   string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number" validate:"required"`
	PurchaseOrderID uuid.UUID     `gorm:"type:uuid;not null;index" json:"purchase_order_id" validate:"uuid_required"`
	PurchaseOrder   PurchaseOrder `json:"purchase_order,omitempty" validate:"-"`
	VendorName      string        `gorm:"type:varchar(255)" json:"vendor_name"`
	InvoiceDate     time.Time     `gorm:"not null" json:"invoice_date" validate:"required"`
	Lines           []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty" validate:"dive"`
}

// InvoiceLine carries the four matched values: unit price, quantity, tax and
// line total. Match results are computed on demand, never stored; only a
// manual override is persisted.
type InvoiceLine struct {
	BaseModel
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	POLineItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"po_line_item_id" validate:"uuid_required"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`

	Override *MatchOverride `gorm:"foreignKey:InvoiceLineID" json:"override,omitempty" validate:"-"`
}

// MatchOverride is a manual approval decision that supersedes the computed
// match result once recorded. The approver and timestamp are kept for audit.
type MatchOverride struct {
	BaseModel
	InvoiceLineID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_line_id"`
	Score         decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"score"`
	Reason        string          `gorm:"type:text;not null" json:"reason" validate:"required"`
	ApprovedBy    string          `gorm:"type:varchar(255);not null" json:"approved_by" validate:"required"`
	ApprovedAt    time.Time       `gorm:"not null" json:"approved_at"`
}
