package model

import "github.com/shopspring/decimal"

// MatchingSettings is the process-wide tolerance configuration. A single row
// is created with defaults on first access and updated through an optimistic
// version check; readers may see a slightly stale snapshot.
type MatchingSettings struct {
	BaseModel
	PriceTolerancePct    decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"price_tolerance_pct"`
	QuantityTolerancePct decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"quantity_tolerance_pct"`
	TaxTolerancePct      decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"tax_tolerance_pct"`
	TotalTolerancePct    decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"total_tolerance_pct"`
	StrictMatchingMode   bool            `gorm:"not null;default:false" json:"strict_matching_mode"`
	AllowOverReceipt     bool            `gorm:"not null;default:false" json:"allow_over_receipt"`
	RequireGRNForInvoice bool            `gorm:"not null;default:true" json:"require_grn_for_invoice"`
	AutoApproveMatched   bool            `gorm:"not null;default:false" json:"auto_approve_matched"`

	Version int `gorm:"not null;default:1" json:"version"`
}

// DefaultMatchingSettings seeds the singleton on first access.
func DefaultMatchingSettings() *MatchingSettings {
	return &MatchingSettings{
		PriceTolerancePct:    decimal.NewFromInt(2),
		QuantityTolerancePct: decimal.NewFromInt(5),
		TaxTolerancePct:      decimal.NewFromInt(1),
		TotalTolerancePct:    decimal.NewFromInt(2),
		StrictMatchingMode:   false,
		AllowOverReceipt:     false,
		RequireGRNForInvoice: true,
		AutoApproveMatched:   false,
		Version:              1,
	}
}
