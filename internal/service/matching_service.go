package service

import (
	"errors"
	"strings"
	"time"

	"go-procure-ledger/internal/matching"
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MatchResultResponse is the computed match decision for one invoice line,
// plus the persisted override when one exists. A recorded override always
// supersedes the computed result.
type MatchResultResponse struct {
	InvoiceLineID uuid.UUID            `json:"invoice_line_id"`
	Result        matching.Result      `json:"result"`
	Override      *model.MatchOverride `json:"override,omitempty"`
	IsApproved    bool                 `json:"is_approved"`
}

type MatchingService interface {
	CreateInvoice(req *model.Invoice, userID string) error
	GetInvoices() ([]model.Invoice, error)
	GetInvoiceByID(id uuid.UUID) (*model.Invoice, error)

	EvaluateLine(lineID uuid.UUID) (*MatchResultResponse, error)
	RecordOverride(lineID uuid.UUID, score decimal.Decimal, reason, approverID string) (*model.MatchOverride, error)
}

type matchingService struct {
	invoiceRepo  repository.InvoiceRepository
	poRepo       repository.PurchaseOrderRepository
	grnRepo      repository.GRNRepository
	settingsRepo repository.SettingsRepository
	db           *gorm.DB
}

func NewMatchingService(invoiceRepo repository.InvoiceRepository, poRepo repository.PurchaseOrderRepository, grnRepo repository.GRNRepository, settingsRepo repository.SettingsRepository, db *gorm.DB) MatchingService {
	return &matchingService{
		invoiceRepo:  invoiceRepo,
		poRepo:       poRepo,
		grnRepo:      grnRepo,
		settingsRepo: settingsRepo,
		db:           db,
	}
}

func (s *matchingService) CreateInvoice(req *model.Invoice, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return errors.New("validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'")
	}
	if len(req.Lines) == 0 {
		return errors.New("invoice must have at least one line")
	}

	if _, err := s.poRepo.FindByID(req.PurchaseOrderID); err != nil {
		return errors.New("purchase order not found")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	for i := range req.Lines {
		req.Lines[i].CreatedBy = userID
		req.Lines[i].UpdatedBy = userID
	}
	return s.invoiceRepo.Create(req)
}

func (s *matchingService) GetInvoices() ([]model.Invoice, error) {
	return s.invoiceRepo.FindAll()
}

func (s *matchingService) GetInvoiceByID(id uuid.UUID) (*model.Invoice, error) {
	return s.invoiceRepo.FindByID(id)
}

// EvaluateLine runs the tolerance comparison for one invoice line. Settings
// are read once per call; a slightly stale snapshot is acceptable. When
// require_grn_for_invoice is set and no approved GRN covers the PO line, the
// whole evaluation is blocked before any field comparison.
func (s *matchingService) EvaluateLine(lineID uuid.UUID) (*MatchResultResponse, error) {
	line, err := s.invoiceRepo.FindLineByID(lineID)
	if err != nil {
		return nil, errors.New("invoice line not found")
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	poLine, err := s.poRepo.FindLineByID(line.POLineItemID)
	if err != nil {
		return nil, errors.New("purchase order line not found")
	}

	ref := matching.Reference{
		UnitPrice: poLine.UnitPrice,
		Quantity:  poLine.QuantityOrdered,
		TaxAmount: poLine.TaxAmount,
		LineTotal: poLine.LineTotal(),
	}

	hasGRN, err := s.grnRepo.HasApprovedForPOLine(line.POLineItemID)
	if err != nil {
		return nil, err
	}
	ref.HasApprovedGRN = hasGRN
	if hasGRN {
		// The invoice should bill what was actually received. A line can be
		// fulfilled across several approved receipts, so the reference is
		// the sum of their accepted quantities.
		accepted, err := s.grnRepo.SumApprovedAcceptedForPOLine(line.POLineItemID)
		if err != nil {
			return nil, err
		}
		ref.Quantity = accepted
	}

	result := matching.Evaluate(matching.LineValues{
		UnitPrice: line.UnitPrice,
		Quantity:  line.Quantity,
		TaxAmount: line.TaxAmount,
		LineTotal: line.LineTotal,
	}, ref, settings)

	resp := &MatchResultResponse{
		InvoiceLineID: line.ID,
		Result:        result,
		Override:      line.Override,
		IsApproved:    result.AutoApproved,
	}
	if line.Override != nil {
		resp.IsApproved = true
	}
	return resp, nil
}

// RecordOverride persists a manual match decision. The reason and approver
// are mandatory; once recorded the override is final.
func (s *matchingService) RecordOverride(lineID uuid.UUID, score decimal.Decimal, reason, approverID string) (*model.MatchOverride, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyOverrideReason
	}
	if strings.TrimSpace(approverID) == "" {
		return nil, errors.New("manual override requires an approver identity")
	}

	line, err := s.invoiceRepo.FindLineByID(lineID)
	if err != nil {
		return nil, errors.New("invoice line not found")
	}
	if line.Override != nil {
		return nil, ErrLineAlreadyOverridden
	}

	override := &model.MatchOverride{
		InvoiceLineID: line.ID,
		Score:         score,
		Reason:        reason,
		ApprovedBy:    approverID,
		ApprovedAt:    time.Now(),
	}
	override.CreatedBy = approverID
	override.UpdatedBy = approverID
	if err := s.invoiceRepo.SaveOverride(override); err != nil {
		return nil, err
	}
	return override, nil
}
