package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem holds the stock configuration for a (product, warehouse)
// pair. The current quantity is never stored on this row; it is derived from
// the ledger and joined in at query time.
type InventoryItem struct {
	BaseModel
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_product_warehouse" json:"product_id" validate:"uuid_required"`
	Product      Product         `json:"product,omitempty" validate:"-"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_product_warehouse" json:"warehouse_id" validate:"uuid_required"`
	Warehouse    Warehouse       `json:"warehouse,omitempty" validate:"-"`
	MinimumLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"minimum_level"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"reorder_level"`
}

type StockStatus string

const (
	StockOut    StockStatus = "OUT_OF_STOCK"
	StockLow    StockStatus = "LOW_STOCK"
	StockNormal StockStatus = "NORMAL"
)

// StatusFor maps a derived quantity onto the configured reorder level.
func (i *InventoryItem) StatusFor(quantity decimal.Decimal) StockStatus {
	switch {
	case !quantity.IsPositive():
		return StockOut
	case quantity.LessThan(i.ReorderLevel):
		return StockLow
	default:
		return StockNormal
	}
}
