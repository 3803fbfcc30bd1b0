package repository

import (
	"time"

	"go-procure-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventFilter narrows a ledger snapshot read. A warehouse filter matches
// either side of an event so transfers show up in both warehouses' views.
type EventFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Type        model.EventType
	BatchNumber string
	From        *time.Time
	To          *time.Time
}

type EventRepository interface {
	// Append persists a new event inside the given transaction handle. The
	// ledger is append-only: there is intentionally no update or delete.
	Append(tx *gorm.DB, event *model.TransactionEvent) error
	FindAll(filter EventFilter) ([]model.TransactionEvent, error)
	FindByID(id uuid.UUID) (*model.TransactionEvent, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db}
}

func (r *eventRepo) Append(tx *gorm.DB, event *model.TransactionEvent) error {
	return tx.Create(event).Error
}

// FindAll reads a consistent snapshot of matching events. Reductions always
// run over the result of a single read, never over a stream that keeps
// growing mid-computation.
func (r *eventRepo) FindAll(filter EventFilter) ([]model.TransactionEvent, error) {
	query := r.db.Model(&model.TransactionEvent{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("source_warehouse_id = ? OR target_warehouse_id = ?", *filter.WarehouseID, *filter.WarehouseID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.BatchNumber != "" {
		query = query.Where("batch_number = ?", filter.BatchNumber)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}

	var events []model.TransactionEvent
	err := query.Order("transaction_date ASC, id ASC").Find(&events).Error
	return events, err
}

func (r *eventRepo) FindByID(id uuid.UUID) (*model.TransactionEvent, error) {
	var event model.TransactionEvent
	err := r.db.Preload("Product").First(&event, "id = ?", id).Error
	return &event, err
}

func (r *eventRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.TransactionEvent{}).
		Select(`
			DATE(transaction_date) as date,
			COALESCE(SUM(CASE WHEN type = 'CHECK_IN' OR (type = 'ADJUSTMENT' AND target_warehouse_id IS NOT NULL) THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'CHECK_OUT' OR (type = 'ADJUSTMENT' AND source_warehouse_id IS NOT NULL) THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transaction_date)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
