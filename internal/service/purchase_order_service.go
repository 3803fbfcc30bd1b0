package service

import (
	"errors"
	"fmt"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/pkg/validator"

	"github.com/google/uuid"
)

type PurchaseOrderService interface {
	Create(req *model.PurchaseOrder, userID string) error
	GetAll() ([]model.PurchaseOrder, error)
	GetByID(id uuid.UUID) (*model.PurchaseOrder, error)
}

type purchaseOrderService struct {
	poRepo repository.PurchaseOrderRepository
}

func NewPurchaseOrderService(poRepo repository.PurchaseOrderRepository) PurchaseOrderService {
	return &purchaseOrderService{poRepo: poRepo}
}

func (s *purchaseOrderService) Create(req *model.PurchaseOrder, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.LineItems) == 0 {
		return errors.New("purchase order must have at least one line item")
	}
	for i := range req.LineItems {
		line := &req.LineItems[i]
		if !line.QuantityOrdered.IsPositive() {
			return errors.New("ordered quantity must be greater than zero")
		}
		if line.UnitPrice.IsNegative() {
			return errors.New("unit price cannot be negative")
		}
		line.CreatedBy = userID
		line.UpdatedBy = userID
	}

	req.Status = model.POStatusOpen
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.poRepo.Create(req)
}

func (s *purchaseOrderService) GetAll() ([]model.PurchaseOrder, error) {
	return s.poRepo.FindAll()
}

func (s *purchaseOrderService) GetByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	return s.poRepo.FindByID(id)
}
