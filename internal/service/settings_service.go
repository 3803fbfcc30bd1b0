package service

import (
	"errors"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	PriceTolerancePct    decimal.Decimal `json:"price_tolerance_pct"`
	QuantityTolerancePct decimal.Decimal `json:"quantity_tolerance_pct"`
	TaxTolerancePct      decimal.Decimal `json:"tax_tolerance_pct"`
	TotalTolerancePct    decimal.Decimal `json:"total_tolerance_pct"`
	StrictMatchingMode   bool            `json:"strict_matching_mode"`
	AllowOverReceipt     bool            `json:"allow_over_receipt"`
	RequireGRNForInvoice bool            `json:"require_grn_for_invoice"`
	AutoApproveMatched   bool            `json:"auto_approve_matched"`
	Version              int             `json:"version"`
}

type SettingsService interface {
	Get() (*model.MatchingSettings, error)
	Update(req *UpdateSettingsRequest, userID string) (*model.MatchingSettings, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get() (*model.MatchingSettings, error) {
	return s.repo.Get()
}

// Update applies a full settings replacement under the optimistic version
// the caller read. A concurrent writer surfaces as
// repository.ErrSettingsVersionConflict.
func (s *settingsService) Update(req *UpdateSettingsRequest, userID string) (*model.MatchingSettings, error) {
	for _, tol := range []decimal.Decimal{req.PriceTolerancePct, req.QuantityTolerancePct, req.TaxTolerancePct, req.TotalTolerancePct} {
		if tol.IsNegative() {
			return nil, errors.New("tolerance percentages cannot be negative")
		}
	}

	current, err := s.repo.Get()
	if err != nil {
		return nil, err
	}

	current.PriceTolerancePct = req.PriceTolerancePct
	current.QuantityTolerancePct = req.QuantityTolerancePct
	current.TaxTolerancePct = req.TaxTolerancePct
	current.TotalTolerancePct = req.TotalTolerancePct
	current.StrictMatchingMode = req.StrictMatchingMode
	current.AllowOverReceipt = req.AllowOverReceipt
	current.RequireGRNForInvoice = req.RequireGRNForInvoice
	current.AutoApproveMatched = req.AutoApproveMatched
	current.UpdatedBy = userID
	if req.Version != 0 {
		current.Version = req.Version
	}

	if err := s.repo.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}
