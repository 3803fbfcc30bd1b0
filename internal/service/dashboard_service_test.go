package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-procure-ledger/internal/ledger"
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/internal/service"
)

type stubEventRepo struct{}

func (stubEventRepo) Append(*gorm.DB, *model.TransactionEvent) error { return nil }
func (stubEventRepo) FindAll(repository.EventFilter) ([]model.TransactionEvent, error) {
	return nil, nil
}
func (stubEventRepo) FindByID(uuid.UUID) (*model.TransactionEvent, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubEventRepo) GetStockMovement(time.Time, time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

type stubProductRepo struct {
	count int64
}

func (s *stubProductRepo) Create(*model.Product) error { return nil }
func (s *stubProductRepo) FindAll(string, string) ([]model.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) FindByID(uuid.UUID) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubProductRepo) FindBySKU(string) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubProductRepo) Update(*model.Product) error { return nil }
func (s *stubProductRepo) Count() (int64, error)       { return s.count, nil }

type stubInventoryService struct {
	stock   []service.StockView
	batches *service.BatchListResponse
}

func (s *stubInventoryService) RecordEvent(*model.TransactionEvent, string, string, string) error {
	return nil
}
func (s *stubInventoryService) GetEvents(repository.EventFilter) ([]model.TransactionEvent, error) {
	return nil, nil
}
func (s *stubInventoryService) GetEventByID(uuid.UUID) (*model.TransactionEvent, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubInventoryService) GetStock(*uuid.UUID, string, string) ([]service.StockView, error) {
	return s.stock, nil
}
func (s *stubInventoryService) GetBatches(*uuid.UUID, ledger.ExpiryStatus) (*service.BatchListResponse, error) {
	return s.batches, nil
}
func (s *stubInventoryService) UpsertItemConfig(*model.InventoryItem, string) error { return nil }

func TestGetDashboardStats_CountsWholeCatalogue(t *testing.T) {
	// Seven products exist but only three ever moved: the dashboard reports
	// the catalogue size, not just what has stock history.
	inv := &stubInventoryService{
		stock: []service.StockView{
			{Status: model.StockNormal},
			{Status: model.StockLow},
			{Status: model.StockOut},
		},
		batches: &service.BatchListResponse{
			Summary: ledger.BatchSummary{TotalValue: decimal.NewFromInt(1234)},
		},
	}

	svc := service.NewDashboardService(stubEventRepo{}, &stubProductRepo{count: 7}, inv)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, 7, stats.TotalProducts)
	assert.Equal(t, 2, stats.LowStockCount)
	assert.Equal(t, "1234", stats.TotalValuation.String())
}
