package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/service"
)

type stubInvoiceRepo struct {
	line *model.InvoiceLine
}

func (s *stubInvoiceRepo) Create(*model.Invoice) error       { return nil }
func (s *stubInvoiceRepo) FindAll() ([]model.Invoice, error) { return nil, nil }
func (s *stubInvoiceRepo) FindByID(uuid.UUID) (*model.Invoice, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubInvoiceRepo) FindLineByID(uuid.UUID) (*model.InvoiceLine, error) { return s.line, nil }
func (s *stubInvoiceRepo) SaveOverride(*model.MatchOverride) error            { return nil }

type stubPORepo struct {
	line *model.POLineItem
}

func (s *stubPORepo) Create(*model.PurchaseOrder) error       { return nil }
func (s *stubPORepo) FindAll() ([]model.PurchaseOrder, error) { return nil, nil }
func (s *stubPORepo) FindByID(uuid.UUID) (*model.PurchaseOrder, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubPORepo) FindLineByID(uuid.UUID) (*model.POLineItem, error) { return s.line, nil }
func (s *stubPORepo) LockLine(*gorm.DB, uuid.UUID) (*model.POLineItem, error) {
	return s.line, nil
}
func (s *stubPORepo) AddReceived(*gorm.DB, uuid.UUID, decimal.Decimal, string) error { return nil }

type stubGRNRepo struct {
	hasApproved bool
	accepted    decimal.Decimal
}

func (s *stubGRNRepo) Create(*model.GRN) error                      { return nil }
func (s *stubGRNRepo) Update(*model.GRN) error                      { return nil }
func (s *stubGRNRepo) FindAll(model.GRNStatus) ([]model.GRN, error) { return nil, nil }
func (s *stubGRNRepo) FindByID(uuid.UUID) (*model.GRN, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubGRNRepo) LockByID(*gorm.DB, uuid.UUID) (*model.GRN, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubGRNRepo) UpdateStatus(*gorm.DB, *model.GRN, map[string]interface{}) error { return nil }
func (s *stubGRNRepo) HasApprovedForPOLine(uuid.UUID) (bool, error) {
	return s.hasApproved, nil
}
func (s *stubGRNRepo) SumApprovedAcceptedForPOLine(uuid.UUID) (decimal.Decimal, error) {
	return s.accepted, nil
}

type stubSettingsRepo struct {
	settings *model.MatchingSettings
}

func (s *stubSettingsRepo) Get() (*model.MatchingSettings, error) { return s.settings, nil }
func (s *stubSettingsRepo) Update(*model.MatchingSettings) error  { return nil }

func TestEvaluateLine_QuantityReferenceSumsAllApprovedReceipts(t *testing.T) {
	// A PO line for 100 fulfilled by two approved GRNs (60 + 40): an invoice
	// billing the full 100 must match against their sum, not against the
	// latest single receipt.
	poLine := &model.POLineItem{
		QuantityOrdered: decimal.NewFromInt(100),
		UnitPrice:       decimal.NewFromInt(10),
	}
	invLine := &model.InvoiceLine{
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  decimal.NewFromInt(100),
		LineTotal: decimal.NewFromInt(1000),
	}

	svc := service.NewMatchingService(
		&stubInvoiceRepo{line: invLine},
		&stubPORepo{line: poLine},
		&stubGRNRepo{hasApproved: true, accepted: decimal.NewFromInt(100)},
		&stubSettingsRepo{settings: model.DefaultMatchingSettings()},
		nil,
	)

	res, err := svc.EvaluateLine(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "100", res.Result.Quantity.ReferenceValue.String())
	assert.True(t, res.Result.Quantity.WithinTolerance)
	assert.False(t, res.Result.Blocked)
}

func TestEvaluateLine_BlockedWithoutApprovedReceipt(t *testing.T) {
	poLine := &model.POLineItem{
		QuantityOrdered: decimal.NewFromInt(100),
		UnitPrice:       decimal.NewFromInt(10),
	}
	invLine := &model.InvoiceLine{
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  decimal.NewFromInt(100),
		LineTotal: decimal.NewFromInt(1000),
	}

	svc := service.NewMatchingService(
		&stubInvoiceRepo{line: invLine},
		&stubPORepo{line: poLine},
		&stubGRNRepo{hasApproved: false},
		&stubSettingsRepo{settings: model.DefaultMatchingSettings()},
		nil,
	)

	res, err := svc.EvaluateLine(uuid.New())
	require.NoError(t, err)

	assert.True(t, res.Result.Blocked)
	assert.False(t, res.IsApproved)
}
