package repository

import (
	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryItemRepository interface {
	Upsert(item *model.InventoryItem) error
	FindAll(warehouseID *uuid.UUID) ([]model.InventoryItem, error)
	FindByKey(productID, warehouseID uuid.UUID) (*model.InventoryItem, error)
}

type inventoryItemRepo struct {
	db *gorm.DB
}

func NewInventoryItemRepo(db *gorm.DB) InventoryItemRepository {
	return &inventoryItemRepo{db}
}

// Upsert writes the stock configuration for a (product, warehouse) pair.
// Only the threshold levels live here; quantities are derived.
func (r *inventoryItemRepo) Upsert(item *model.InventoryItem) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"minimum_level", "reorder_level", "updated_by"}),
	}).Create(item).Error
}

func (r *inventoryItemRepo) FindAll(warehouseID *uuid.UUID) ([]model.InventoryItem, error) {
	query := r.db.Preload("Product").Preload("Warehouse")
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var items []model.InventoryItem
	err := query.Find(&items).Error
	return items, err
}

func (r *inventoryItemRepo) FindByKey(productID, warehouseID uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.First(&item, "product_id = ? AND warehouse_id = ?", productID, warehouseID).Error
	return &item, err
}
