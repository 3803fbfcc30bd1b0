package repository

import (
	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	Create(po *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindLineByID(id uuid.UUID) (*model.POLineItem, error)

	// LockLine loads a PO line FOR UPDATE inside the given transaction so a
	// GRN approval can bump quantity_received without racing another writer.
	LockLine(tx *gorm.DB, id uuid.UUID) (*model.POLineItem, error)
	AddReceived(tx *gorm.DB, lineID uuid.UUID, quantity decimal.Decimal, updatedBy string) error
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

func (r *purchaseOrderRepo) Create(po *model.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *purchaseOrderRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("LineItems").Preload("LineItems.Product").Preload("Warehouse").
		Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.Preload("LineItems").Preload("LineItems.Product").Preload("Warehouse").
		First(&po, "id = ?", id).Error
	return &po, err
}

func (r *purchaseOrderRepo) FindLineByID(id uuid.UUID) (*model.POLineItem, error) {
	var line model.POLineItem
	err := r.db.Preload("Product").First(&line, "id = ?", id).Error
	return &line, err
}

func (r *purchaseOrderRepo) LockLine(tx *gorm.DB, id uuid.UUID) (*model.POLineItem, error) {
	var line model.POLineItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&line, "id = ?", id).Error
	return &line, err
}

func (r *purchaseOrderRepo) AddReceived(tx *gorm.DB, lineID uuid.UUID, quantity decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.POLineItem{}).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"quantity_received": gorm.Expr("quantity_received + ?", quantity),
			"updated_by":        updatedBy,
		}).Error
}
