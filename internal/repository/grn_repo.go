package repository

import (
	"errors"

	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrGRNVersionConflict means another writer moved the GRN between this
// transaction's read and its status update.
var ErrGRNVersionConflict = errors.New("GRN was modified concurrently")

type GRNRepository interface {
	Create(grn *model.GRN) error
	Update(grn *model.GRN) error
	FindAll(status model.GRNStatus) ([]model.GRN, error)
	FindByID(id uuid.UUID) (*model.GRN, error)

	// LockByID loads a GRN FOR UPDATE inside the given transaction. Workflow
	// transitions re-check the status after acquiring the lock, so of two
	// concurrent approvals exactly one wins and the loser sees the moved
	// status.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.GRN, error)
	UpdateStatus(tx *gorm.DB, grn *model.GRN, fields map[string]interface{}) error

	// HasApprovedForPOLine reports whether any approved GRN covers the given
	// PO line. Used by the matching engine's require-GRN gate.
	HasApprovedForPOLine(poLineID uuid.UUID) (bool, error)

	// SumApprovedAcceptedForPOLine totals the accepted quantity across every
	// approved GRN item covering the PO line. A line can be fulfilled by
	// several receipts; the matching reference is their sum, not the latest.
	SumApprovedAcceptedForPOLine(poLineID uuid.UUID) (decimal.Decimal, error)
}

type grnRepo struct {
	db *gorm.DB
}

func NewGRNRepo(db *gorm.DB) GRNRepository {
	return &grnRepo{db}
}

func (r *grnRepo) Create(grn *model.GRN) error {
	return r.db.Create(grn).Error
}

func (r *grnRepo) Update(grn *model.GRN) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(grn).Error
}

func (r *grnRepo) FindAll(status model.GRNStatus) ([]model.GRN, error) {
	query := r.db.Preload("Items").Preload("Items.Product").Preload("Warehouse").Preload("PurchaseOrder")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var grns []model.GRN
	err := query.Order("received_date DESC").Find(&grns).Error
	return grns, err
}

func (r *grnRepo) FindByID(id uuid.UUID) (*model.GRN, error) {
	var grn model.GRN
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Warehouse").
		Preload("PurchaseOrder").Preload("PurchaseOrder.LineItems").
		First(&grn, "id = ?", id).Error
	return &grn, err
}

func (r *grnRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.GRN, error) {
	var grn model.GRN
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&grn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Product").Find(&grn.Items, "grn_id = ?", grn.ID).Error; err != nil {
		return nil, err
	}
	return &grn, nil
}

// UpdateStatus applies a workflow transition with an optimistic version
// bump. Zero rows affected means another writer moved the GRN first.
func (r *grnRepo) UpdateStatus(tx *gorm.DB, grn *model.GRN, fields map[string]interface{}) error {
	fields["version"] = grn.Version + 1
	result := tx.Model(&model.GRN{}).
		Where("id = ? AND version = ?", grn.ID, grn.Version).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGRNVersionConflict
	}
	grn.Version++
	return nil
}

func (r *grnRepo) HasApprovedForPOLine(poLineID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.GRNItem{}).
		Joins("JOIN grns ON grns.id = grn_items.grn_id").
		Where("grn_items.po_line_item_id = ? AND grns.status = ? AND grns.deleted_at IS NULL", poLineID, model.GRNStatusApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *grnRepo) SumApprovedAcceptedForPOLine(poLineID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.GRNItem{}).
		Joins("JOIN grns ON grns.id = grn_items.grn_id").
		Where("grn_items.po_line_item_id = ? AND grns.status = ? AND grns.deleted_at IS NULL AND grn_items.deleted_at IS NULL", poLineID, model.GRNStatusApproved).
		Select("COALESCE(SUM(grn_items.quantity_accepted), 0)").
		Scan(&total).Error
	return total, err
}
