package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/internal/ws"
	"go-procure-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ValidateReceipt checks one proposed GRN item against its PO line. An
// accepted quantity above the line's pending quantity produces a warning
// naming the line; the warning blocks submission unless over-receipt is
// explicitly allowed by settings.
func ValidateReceipt(line *model.POLineItem, proposed *model.GRNItem, settings *model.MatchingSettings) (warnings []string, blocking bool) {
	pending := line.QuantityPending()
	if proposed.QuantityAccepted.GreaterThan(pending) {
		sku := line.Product.SKU
		if sku == "" {
			sku = line.ID.String()
		}
		warnings = append(warnings, overReceiptWarning(sku, proposed.QuantityAccepted, pending))
		blocking = !settings.AllowOverReceipt
	}
	return warnings, blocking
}

type GRNService interface {
	CreateDraft(req *model.GRN, userID string) error
	UpdateDraft(id uuid.UUID, req *model.GRN, userID string) (*model.GRN, error)
	Submit(id uuid.UUID, userID string) (*model.GRN, []string, error)
	Approve(id uuid.UUID, comments, userID string) (*model.GRN, error)
	Reject(id uuid.UUID, reason, userID string) (*model.GRN, error)
	Cancel(id uuid.UUID, userID string) (*model.GRN, error)
	Publish(id uuid.UUID, userID string) (*model.GRN, error)
	GetAll(status model.GRNStatus) ([]model.GRN, error)
	GetByID(id uuid.UUID) (*model.GRN, error)
}

type grnService struct {
	grnRepo      repository.GRNRepository
	poRepo       repository.PurchaseOrderRepository
	eventRepo    repository.EventRepository
	settingsRepo repository.SettingsRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	log          *logrus.Logger
}

func NewGRNService(grnRepo repository.GRNRepository, poRepo repository.PurchaseOrderRepository, eventRepo repository.EventRepository, settingsRepo repository.SettingsRepository, db *gorm.DB, hub *ws.Hub, log *logrus.Logger) GRNService {
	return &grnService{
		grnRepo:      grnRepo,
		poRepo:       poRepo,
		eventRepo:    eventRepo,
		settingsRepo: settingsRepo,
		db:           db,
		wsHub:        hub,
		log:          log,
	}
}

// mapTransitionErr normalizes a lost optimistic-version race. To the caller
// it is the same condition as a stale status check: the transition it asked
// for is no longer valid from the state the GRN is now in.
func mapTransitionErr(err error) error {
	if errors.Is(err, repository.ErrGRNVersionConflict) {
		return ErrInvalidTransition
	}
	return err
}

// validateItems enforces the accepted+rejected=received invariant for every
// item. This is a hard validation error, rejected before any state change.
func validateItems(items []model.GRNItem) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *grnService) CreateDraft(req *model.GRN, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := validateItems(req.Items); err != nil {
		return err
	}

	po, err := s.poRepo.FindByID(req.PurchaseOrderID)
	if err != nil {
		return errors.New("purchase order not found")
	}
	linesByID := make(map[uuid.UUID]*model.POLineItem, len(po.LineItems))
	for i := range po.LineItems {
		linesByID[po.LineItems[i].ID] = &po.LineItems[i]
	}
	for i := range req.Items {
		line, ok := linesByID[req.Items[i].POLineItemID]
		if !ok {
			return errors.New("GRN item references a line outside the purchase order")
		}
		req.Items[i].QuantityOrdered = line.QuantityOrdered
		req.Items[i].ProductID = line.ProductID
		if req.Items[i].UnitPrice.IsZero() {
			req.Items[i].UnitPrice = line.UnitPrice
		}
		req.Items[i].CreatedBy = userID
		req.Items[i].UpdatedBy = userID
	}

	req.Status = model.GRNStatusDraft
	req.Version = 1
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.grnRepo.Create(req)
}

func (s *grnService) UpdateDraft(id uuid.UUID, req *model.GRN, userID string) (*model.GRN, error) {
	grn, err := s.grnRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("GRN not found")
	}
	if grn.Status != model.GRNStatusDraft {
		return nil, ErrInvalidTransition
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	grn.ReceivedDate = req.ReceivedDate
	grn.Notes = req.Notes
	grn.Items = req.Items
	for i := range grn.Items {
		grn.Items[i].GRNID = grn.ID
		grn.Items[i].UpdatedBy = userID
	}
	grn.UpdatedBy = userID
	if err := s.grnRepo.Update(grn); err != nil {
		return nil, err
	}
	return grn, nil
}

// Submit moves a draft to pending approval. Items must pass the hard split
// invariant and the receipt reconciliation; an over-receipt without the
// allow_over_receipt policy is a blocking condition, not just display text.
func (s *grnService) Submit(id uuid.UUID, userID string) (*model.GRN, []string, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, nil, err
	}

	var grn *model.GRN
	var warnings []string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		grn, err = s.grnRepo.LockByID(tx, id)
		if err != nil {
			return errors.New("GRN not found")
		}
		if !grn.Status.CanTransitionTo(model.GRNStatusPendingApproval) {
			return ErrInvalidTransition
		}
		if err := validateItems(grn.Items); err != nil {
			return err
		}

		anyReceived := false
		for i := range grn.Items {
			if grn.Items[i].QuantityReceived.IsPositive() {
				anyReceived = true
				break
			}
		}
		if !anyReceived {
			return ErrNoReceivedItems
		}

		blocked := false
		for i := range grn.Items {
			line, err := s.poRepo.FindLineByID(grn.Items[i].POLineItemID)
			if err != nil {
				return errors.New("purchase order line not found")
			}
			w, b := ValidateReceipt(line, &grn.Items[i], settings)
			warnings = append(warnings, w...)
			blocked = blocked || b
		}
		if blocked {
			return &OverReceiptError{Warnings: warnings}
		}

		return s.grnRepo.UpdateStatus(tx, grn, map[string]interface{}{
			"status":     model.GRNStatusPendingApproval,
			"updated_by": userID,
		})
	})
	if err != nil {
		return nil, warnings, mapTransitionErr(err)
	}

	grn.Status = model.GRNStatusPendingApproval
	return grn, warnings, nil
}

// Approve posts the receipt into the ledger. The check-in appends and the PO
// counter updates happen inside one database transaction under row locks: a
// partially applied approval is a consistency violation this boundary
// structurally prevents. Of two concurrent approvals exactly one wins; the
// loser gets ErrInvalidTransition.
func (s *grnService) Approve(id uuid.UUID, comments, userID string) (*model.GRN, error) {
	var grn *model.GRN

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		grn, err = s.grnRepo.LockByID(tx, id)
		if err != nil {
			return errors.New("GRN not found")
		}
		if !grn.Status.CanTransitionTo(model.GRNStatusApproved) {
			return ErrInvalidTransition
		}

		now := time.Now()
		for i := range grn.Items {
			item := &grn.Items[i]
			if !item.QuantityAccepted.IsPositive() {
				continue
			}

			if _, err := s.poRepo.LockLine(tx, item.POLineItemID); err != nil {
				return errors.New("purchase order line not found")
			}
			if err := s.poRepo.AddReceived(tx, item.POLineItemID, item.QuantityAccepted, userID); err != nil {
				return err
			}

			warehouseID := grn.WarehouseID
			event := &model.TransactionEvent{
				Type:              model.EventCheckIn,
				ProductID:         item.ProductID,
				TargetWarehouseID: &warehouseID,
				Quantity:          item.QuantityAccepted,
				UnitPrice:         item.UnitPrice,
				BatchNumber:       item.BatchNumber,
				ExpiryDate:        item.ExpiryDate,
				TransactionDate:   now,
				Reference:         "GRN:" + grn.GRNNumber,
				ActorID:           userID,
			}
			event.CreatedBy = userID
			event.UpdatedBy = userID
			if err := event.Validate(); err != nil {
				return err
			}
			if err := s.eventRepo.Append(tx, event); err != nil {
				return err
			}
		}

		return s.grnRepo.UpdateStatus(tx, grn, map[string]interface{}{
			"status":            model.GRNStatusApproved,
			"approval_comments": comments,
			"updated_by":        userID,
		})
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	grn.Status = model.GRNStatusApproved
	grn.ApprovalComments = comments

	s.log.WithFields(logrus.Fields{
		"grn":         grn.GRNNumber,
		"approved_by": userID,
	}).Info("GRN approved, receipt posted to ledger")

	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  "grn_approved",
			"grn":     map[string]interface{}{"id": grn.ID, "grn_number": grn.GRNNumber},
			"message": fmt.Sprintf("GRN '%s' approved, stock checked in", grn.GRNNumber),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return grn, nil
}

func (s *grnService) Reject(id uuid.UUID, reason, userID string) (*model.GRN, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyRejectReason
	}

	var grn *model.GRN
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		grn, err = s.grnRepo.LockByID(tx, id)
		if err != nil {
			return errors.New("GRN not found")
		}
		if !grn.Status.CanTransitionTo(model.GRNStatusRejected) {
			return ErrInvalidTransition
		}
		// No ledger or PO effect: a rejected receipt never touches stock.
		return s.grnRepo.UpdateStatus(tx, grn, map[string]interface{}{
			"status":           model.GRNStatusRejected,
			"rejection_reason": reason,
			"updated_by":       userID,
		})
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	grn.Status = model.GRNStatusRejected
	grn.RejectionReason = reason
	return grn, nil
}

func (s *grnService) Cancel(id uuid.UUID, userID string) (*model.GRN, error) {
	var grn *model.GRN
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		grn, err = s.grnRepo.LockByID(tx, id)
		if err != nil {
			return errors.New("GRN not found")
		}
		if !grn.Status.CanTransitionTo(model.GRNStatusCancelled) {
			return ErrInvalidTransition
		}
		return s.grnRepo.UpdateStatus(tx, grn, map[string]interface{}{
			"status":     model.GRNStatusCancelled,
			"updated_by": userID,
		})
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	grn.Status = model.GRNStatusCancelled
	return grn, nil
}

// Publish marks an approved GRN as shared with the vendor. Publishing twice
// is a no-op, not an error.
func (s *grnService) Publish(id uuid.UUID, userID string) (*model.GRN, error) {
	var grn *model.GRN
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		grn, err = s.grnRepo.LockByID(tx, id)
		if err != nil {
			return errors.New("GRN not found")
		}
		if grn.Status != model.GRNStatusApproved {
			return ErrInvalidTransition
		}
		if grn.IsPublishedToVendor {
			return nil
		}

		now := time.Now()
		if err := s.grnRepo.UpdateStatus(tx, grn, map[string]interface{}{
			"is_published_to_vendor": true,
			"published_at":           now,
			"updated_by":             userID,
		}); err != nil {
			return err
		}
		grn.IsPublishedToVendor = true
		grn.PublishedAt = &now
		return nil
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}
	return grn, nil
}

func (s *grnService) GetAll(status model.GRNStatus) ([]model.GRN, error) {
	return s.grnRepo.FindAll(status)
}

func (s *grnService) GetByID(id uuid.UUID) (*model.GRN, error) {
	return s.grnRepo.FindByID(id)
}
