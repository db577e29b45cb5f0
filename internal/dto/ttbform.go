package dto

import (
	"github.com/shopspring/decimal"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// TTBFormQuery selects the reporting period for form building and export.
type TTBFormQuery struct {
	PeriodStart string `form:"periodStart" binding:"required"` // YYYY-MM-DD
	PeriodEnd   string `form:"periodEnd" binding:"required"`   // YYYY-MM-DD
}

// TTBFormResponse wraps the computed form with the derived effervescent column.
// The effervescent ledger is a render-time sum of the carbonated and sparkling
// ledgers, never a tracked class.
type TTBFormResponse struct {
	Form             *domain.TTBForm512017Data `json:"form"`
	EffervescentBulk domain.BulkWinesLedger    `json:"effervescentBulk"`
}

// TaxRowView is a tax computation row with dollars rounded to two decimals.
type TaxRowView struct {
	TaxClass            domain.TaxClass `json:"taxClass,omitempty"`
	TaxClassLabel       string          `json:"taxClassLabel,omitempty"`
	TaxableGallons      float64         `json:"taxableGallons"`
	TaxRate             decimal.Decimal `json:"taxRate"`
	GrossTax            decimal.Decimal `json:"grossTax"`
	CreditGallons       float64         `json:"smallProducerCreditGallons"`
	SmallProducerCredit decimal.Decimal `json:"smallProducerCredit"`
	NetTax              decimal.Decimal `json:"netTax"`
}

// TaxComputationResponse is the per-class rows plus the aggregate net owed.
type TaxComputationResponse struct {
	Rows  []TaxRowView `json:"rows"`
	Total TaxRowView   `json:"total"`
}
