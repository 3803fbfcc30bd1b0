package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-procure-ledger/internal/ledger"
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/internal/ws"
	"go-procure-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService interface {
	RecordEvent(req *model.TransactionEvent, userID, userName, userEmail string) error
	GetEvents(filter repository.EventFilter) ([]model.TransactionEvent, error)
	GetEventByID(id uuid.UUID) (*model.TransactionEvent, error)

	GetStock(warehouseID *uuid.UUID, category, search string) ([]StockView, error)
	GetBatches(warehouseID *uuid.UUID, tier ledger.ExpiryStatus) (*BatchListResponse, error)

	UpsertItemConfig(req *model.InventoryItem, userID string) error
}

// StockView is the derived per-(product, warehouse) stock position joined
// with its configured thresholds.
type StockView struct {
	ProductID    uuid.UUID         `json:"product_id"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Category     string            `json:"category,omitempty"`
	Unit         string            `json:"unit,omitempty"`
	WarehouseID  uuid.UUID         `json:"warehouse_id"`
	Quantity     decimal.Decimal   `json:"quantity"`
	MinimumLevel decimal.Decimal   `json:"minimum_level"`
	ReorderLevel decimal.Decimal   `json:"reorder_level"`
	Status       model.StockStatus `json:"status"`
}

// BatchView is one derived batch with its expiry tier.
type BatchView struct {
	BatchNumber  string              `json:"batch_number"`
	ProductID    uuid.UUID           `json:"product_id"`
	WarehouseID  uuid.UUID           `json:"warehouse_id"`
	Quantity     decimal.Decimal     `json:"quantity"`
	TotalValue   decimal.Decimal     `json:"total_value"`
	ReceivedDate time.Time           `json:"received_date"`
	ExpiryDate   *time.Time          `json:"expiry_date,omitempty"`
	ExpiryStatus ledger.ExpiryStatus `json:"expiry_status"`
}

type BatchListResponse struct {
	Batches []BatchView         `json:"batches"`
	Summary ledger.BatchSummary `json:"summary"`
}

type inventoryService struct {
	eventRepo repository.EventRepository
	prodRepo  repository.ProductRepository
	itemRepo  repository.InventoryItemRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewInventoryService(eventRepo repository.EventRepository, prodRepo repository.ProductRepository, itemRepo repository.InventoryItemRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		eventRepo: eventRepo,
		prodRepo:  prodRepo,
		itemRepo:  itemRepo,
		db:        db,
		wsHub:     hub,
	}
}

// RecordEvent validates and appends a movement event. Validation happens
// here at the boundary; a malformed event never reaches the ledger.
func (s *inventoryService) RecordEvent(req *model.TransactionEvent, userID, userName, userEmail string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.prodRepo.FindByID(req.ProductID); err != nil {
		return errors.New("product not found")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.ActorID = userID
	if req.TransactionDate.IsZero() {
		req.TransactionDate = time.Now()
	}

	// Appends are individually atomic; they do not need to serialize
	// against each other.
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.eventRepo.Append(tx, req)
	}); err != nil {
		return err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "event_recorded",
			"event": map[string]interface{}{
				"id":         req.ID,
				"event_type": req.Type,
				"product_id": req.ProductID,
				"quantity":   req.Quantity,
				"batch":      req.BatchNumber,
			},
			"user": map[string]interface{}{
				"id":    userID,
				"name":  userName,
				"email": userEmail,
			},
			"message": fmt.Sprintf("%s recorded %s of %s units", userName, req.Type, req.Quantity.String()),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}

func (s *inventoryService) GetEvents(filter repository.EventFilter) ([]model.TransactionEvent, error) {
	return s.eventRepo.FindAll(filter)
}

func (s *inventoryService) GetEventByID(id uuid.UUID) (*model.TransactionEvent, error) {
	return s.eventRepo.FindByID(id)
}

// GetStock reduces a snapshot of the ledger into per-item quantities and
// joins the configured thresholds. Quantities are never read from a stored
// total.
func (s *inventoryService) GetStock(warehouseID *uuid.UUID, category, search string) ([]StockView, error) {
	events, err := s.eventRepo.FindAll(repository.EventFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	_, quantities := ledger.Reduce(events, ledger.Filter{WarehouseID: warehouseID})

	products, err := s.prodRepo.FindAll(search, category)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	configs, err := s.itemRepo.FindAll(warehouseID)
	if err != nil {
		return nil, err
	}
	configByKey := make(map[ledger.ItemKey]*model.InventoryItem, len(configs))
	for i := range configs {
		key := ledger.ItemKey{ProductID: configs[i].ProductID, WarehouseID: configs[i].WarehouseID}
		configByKey[key] = &configs[i]
	}

	// Union of keys that moved and keys that are configured, so a fully
	// drained but configured item still shows up as out of stock.
	keys := make(map[ledger.ItemKey]struct{}, len(quantities)+len(configByKey))
	for key := range quantities {
		keys[key] = struct{}{}
	}
	for key := range configByKey {
		keys[key] = struct{}{}
	}

	views := make([]StockView, 0, len(keys))
	for key := range keys {
		product, ok := productsByID[key.ProductID]
		if !ok {
			// Filtered out by category/search.
			continue
		}

		view := StockView{
			ProductID:   key.ProductID,
			SKU:         product.SKU,
			Name:        product.Name,
			Category:    product.Category,
			Unit:        product.Unit,
			WarehouseID: key.WarehouseID,
			Quantity:    quantities[key],
		}

		cfg := configByKey[key]
		if cfg == nil {
			cfg = &model.InventoryItem{}
		}
		view.MinimumLevel = cfg.MinimumLevel
		view.ReorderLevel = cfg.ReorderLevel
		view.Status = cfg.StatusFor(view.Quantity)

		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].SKU != views[j].SKU {
			return views[i].SKU < views[j].SKU
		}
		return views[i].WarehouseID.String() < views[j].WarehouseID.String()
	})

	return views, nil
}

// GetBatches reduces a snapshot into batch states, classifies expiry tiers
// and aggregates counts. The summary covers every live batch in scope; the
// list can additionally be narrowed to one tier.
func (s *inventoryService) GetBatches(warehouseID *uuid.UUID, tier ledger.ExpiryStatus) (*BatchListResponse, error) {
	events, err := s.eventRepo.FindAll(repository.EventFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	batches, _ := ledger.Reduce(events, ledger.Filter{WarehouseID: warehouseID})

	now := time.Now()
	resp := &BatchListResponse{
		Batches: make([]BatchView, 0, len(batches)),
		Summary: ledger.Summarize(batches, now),
	}

	for _, st := range batches {
		status := ledger.ClassifyExpiry(st.ExpiryDate, now)
		if tier != "" && status != tier {
			continue
		}
		resp.Batches = append(resp.Batches, BatchView{
			BatchNumber:  st.BatchNumber,
			ProductID:    st.ProductID,
			WarehouseID:  st.WarehouseID,
			Quantity:     st.Quantity,
			TotalValue:   st.TotalValue,
			ReceivedDate: st.ReceivedDate,
			ExpiryDate:   st.ExpiryDate,
			ExpiryStatus: status,
		})
	}

	sort.Slice(resp.Batches, func(i, j int) bool {
		if resp.Batches[i].BatchNumber != resp.Batches[j].BatchNumber {
			return resp.Batches[i].BatchNumber < resp.Batches[j].BatchNumber
		}
		return resp.Batches[i].WarehouseID.String() < resp.Batches[j].WarehouseID.String()
	})

	return resp, nil
}

func (s *inventoryService) UpsertItemConfig(req *model.InventoryItem, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.MinimumLevel.IsNegative() || req.ReorderLevel.IsNegative() {
		return errors.New("stock levels cannot be negative")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.itemRepo.Upsert(req)
}
