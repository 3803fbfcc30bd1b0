package service

import (
	"time"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int             `json:"total_products"`
	LowStockCount  int             `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type dashboardService struct {
	eventRepo   repository.EventRepository
	productRepo repository.ProductRepository
	invSvc      InventoryService
}

func NewDashboardService(eventRepo repository.EventRepository, productRepo repository.ProductRepository, invSvc InventoryService) DashboardService {
	return &dashboardService{eventRepo: eventRepo, productRepo: productRepo, invSvc: invSvc}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.eventRepo.GetStockMovement(startDate, endDate)
}

// GetDashboardStats reports the catalogue size plus ledger-derived figures:
// low-stock counts come from reduced quantities vs configured reorder levels,
// valuation from the live batch values.
func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	productCount, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}

	stock, err := s.invSvc.GetStock(nil, "", "")
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:  int(productCount),
		TotalValuation: decimal.Zero,
	}
	for _, view := range stock {
		if view.Status == model.StockLow || view.Status == model.StockOut {
			stats.LowStockCount++
		}
	}

	batches, err := s.invSvc.GetBatches(nil, "")
	if err != nil {
		return nil, err
	}
	stats.TotalValuation = batches.Summary.TotalValue

	return stats, nil
}
