package repository

import (
	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(invoice *model.Invoice) error
	FindAll() ([]model.Invoice, error)
	FindByID(id uuid.UUID) (*model.Invoice, error)
	FindLineByID(id uuid.UUID) (*model.InvoiceLine, error)
	SaveOverride(override *model.MatchOverride) error
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) Create(invoice *model.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *invoiceRepo) FindAll() ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.Preload("Lines").Preload("Lines.Override").Preload("PurchaseOrder").
		Order("invoice_date DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Preload("Lines").Preload("Lines.Override").Preload("PurchaseOrder").
		First(&invoice, "id = ?", id).Error
	return &invoice, err
}

func (r *invoiceRepo) FindLineByID(id uuid.UUID) (*model.InvoiceLine, error) {
	var line model.InvoiceLine
	err := r.db.Preload("Override").First(&line, "id = ?", id).Error
	return &line, err
}

func (r *invoiceRepo) SaveOverride(override *model.MatchOverride) error {
	return r.db.Create(override).Error
}
