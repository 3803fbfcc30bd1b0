package repository

import (
	"errors"

	"go-procure-ledger/internal/model"

	"gorm.io/gorm"
)

var ErrSettingsVersionConflict = errors.New("matching settings were modified concurrently")

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults on
	// first access.
	Get() (*model.MatchingSettings, error)

	// Update applies changes under an optimistic version check. A version
	// mismatch returns ErrSettingsVersionConflict and changes nothing.
	Update(settings *model.MatchingSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) Get() (*model.MatchingSettings, error) {
	var settings model.MatchingSettings
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := model.DefaultMatchingSettings()
		defaults.CreatedBy = "system"
		defaults.UpdatedBy = "system"
		if err := r.db.Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Update(settings *model.MatchingSettings) error {
	result := r.db.Model(&model.MatchingSettings{}).
		Where("id = ? AND version = ?", settings.ID, settings.Version).
		Updates(map[string]interface{}{
			"price_tolerance_pct":     settings.PriceTolerancePct,
			"quantity_tolerance_pct":  settings.QuantityTolerancePct,
			"tax_tolerance_pct":       settings.TaxTolerancePct,
			"total_tolerance_pct":     settings.TotalTolerancePct,
			"strict_matching_mode":    settings.StrictMatchingMode,
			"allow_over_receipt":      settings.AllowOverReceipt,
			"require_grn_for_invoice": settings.RequireGRNForInvoice,
			"auto_approve_matched":    settings.AutoApproveMatched,
			"updated_by":              settings.UpdatedBy,
			"version":                 settings.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingsVersionConflict
	}
	settings.Version++
	return nil
}
