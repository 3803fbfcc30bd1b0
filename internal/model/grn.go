package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GRNStatus string

const (
	GRNStatusDraft           GRNStatus = "DRAFT"
	GRNStatusPendingApproval GRNStatus = "PENDING_APPROVAL"
	GRNStatusApproved        GRNStatus = "APPROVED"
	GRNStatusRejected        GRNStatus = "REJECTED"
	GRNStatusCancelled       GRNStatus = "CANCELLED"
)

// CanTransitionTo encodes the receipt workflow. Approved and rejected are
// terminal: a rejected GRN is never reopened, a corrected one is created
// fresh so the audit trail stays intact. Cancellation is only a withdrawal
// before a decision.
func (s GRNStatus) CanTransitionTo(target GRNStatus) bool {
	switch s {
	case GRNStatusDraft:
		return target == GRNStatusPendingApproval || target == GRNStatusCancelled
	case GRNStatusPendingApproval:
		return target == GRNStatusApproved || target == GRNStatusRejected || target == GRNStatusCancelled
	case GRNStatusApproved, GRNStatusRejected, GRNStatusCancelled:
		return false
	}
	return false
}

func (s GRNStatus) String() string {
	return string(s)
}

// GRN records a physical goods receipt against a purchase order. Its items
// only hit the ledger once the GRN is approved.
type GRN struct {
	BaseModel
	GRNNumber       string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"grn_number" validate:"required"`
	PurchaseOrderID uuid.UUID     `gorm:"type:uuid;not null;index" json:"purchase_order_id" validate:"uuid_required"`
	PurchaseOrder   PurchaseOrder `json:"purchase_order,omitempty" validate:"-"`
	WarehouseID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"warehouse_id" validate:"uuid_required"`
	Warehouse       Warehouse     `json:"warehouse,omitempty" validate:"-"`
	Status          GRNStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ReceivedDate    time.Time     `gorm:"not null" json:"received_date" validate:"required"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	Items           []GRNItem     `gorm:"foreignKey:GRNID" json:"items,omitempty" validate:"dive"`

	ApprovalComments string `gorm:"type:text" json:"approval_comments,omitempty"`
	RejectionReason  string `gorm:"type:text" json:"rejection_reason,omitempty"`

	IsPublishedToVendor bool       `gorm:"default:false" json:"is_published_to_vendor"`
	PublishedAt         *time.Time `json:"published_at,omitempty"`

	// Version guards concurrent workflow transitions (optimistic locking).
	Version int `gorm:"not null;default:1" json:"version"`
}

// GRNItem is one received line. Accepted + rejected must always equal
// received; that split decides how much posts into the ledger on approval.
type GRNItem struct {
	BaseModel
	GRNID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"grn_id"`
	POLineItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"po_line_item_id" validate:"uuid_required"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product          Product         `json:"product,omitempty" validate:"-"`
	QuantityOrdered  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_received"`
	QuantityAccepted decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_accepted"`
	QuantityRejected decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_rejected"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	BatchNumber      string          `gorm:"type:varchar(100)" json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
}

var ErrAcceptedRejectedMismatch = errors.New("quantity_accepted + quantity_rejected must equal quantity_received")

// Validate enforces the accepted/rejected split invariant. This is a hard
// validation error, checked before any workflow transition is attempted.
func (i *GRNItem) Validate() error {
	if i.QuantityReceived.IsNegative() || i.QuantityAccepted.IsNegative() || i.QuantityRejected.IsNegative() {
		return errors.New("GRN item quantities cannot be negative")
	}
	if !i.QuantityAccepted.Add(i.QuantityRejected).Equal(i.QuantityReceived) {
		return ErrAcceptedRejectedMismatch
	}
	return nil
}
