package dto

import (
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// SaveReconciliationRequest captures an explicit "save reconciliation" action.
// The summary itself is recomputed server-side from the reconciliation date so a
// stale client cannot persist figures that no longer match stored data.
type SaveReconciliationRequest struct {
	ReconciliationDate       time.Time  `json:"reconciliationDate" binding:"required"`
	Name                     string     `json:"name,omitempty"`
	Notes                    string     `json:"notes,omitempty"`
	PeriodStartDate          *time.Time `json:"periodStartDate,omitempty"`
	PeriodEndDate            *time.Time `json:"periodEndDate,omitempty"`
	PreviousReconciliationID *string    `json:"previousReconciliationId,omitempty"`
}

// SaveReconciliationResponse returns the persisted snapshot id.
type SaveReconciliationResponse struct {
	ReconciliationID string `json:"reconciliationID"`
}

// ListReconciliationsParams controls history pagination.
type ListReconciliationsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListReconciliationsResponse is a page of reconciliation history.
type ListReconciliationsResponse struct {
	Reconciliations []domain.ReconciliationSnapshot `json:"reconciliations"`
	NextToken       *string                         `json:"nextToken,omitempty"`
}

// LastReconciliationResponse distinguishes "never reconciled" (null) from failure.
type LastReconciliationResponse struct {
	Reconciliation *domain.ReconciliationSnapshot `json:"reconciliation"`
}

// ReconciliationRowView is a presentation row with gallons rounded to one decimal.
type ReconciliationRowView struct {
	TaxClass         domain.TaxClass `json:"taxClass,omitempty"`
	TaxClassLabel    string          `json:"taxClassLabel,omitempty"`
	TTBGallons       float64         `json:"ttbGallons"`
	InventoryGallons float64         `json:"inventoryGallons"`
	RemovalsGallons  float64         `json:"removalsGallons"`
	LegacyGallons    float64         `json:"legacyGallons"`
	Difference       float64         `json:"difference"`
	IsReconciled     bool            `json:"isReconciled"`
	Guidance         string          `json:"guidance,omitempty"`
}

// ReconciliationSummaryResponse is the full summary with presentation rounding
// applied. Internal computation keeps full float precision; this is the only
// place gallon figures are rounded.
type ReconciliationSummaryResponse struct {
	ReconciliationDate  time.Time                                `json:"reconciliationDate"`
	HasOpeningBalances  bool                                     `json:"hasOpeningBalances"`
	OpeningBalanceDate  *time.Time                               `json:"openingBalanceDate,omitempty"`
	Totals              ReconciliationRowView                    `json:"totals"`
	Breakdown           []ReconciliationRowView                  `json:"breakdown"`
	InventoryByYear     []domain.InventoryYearRow                `json:"inventoryByYear"`
	ProductionAudit     []domain.ProductionYearTotals            `json:"productionAudit"`
	TaxClasses          []domain.TaxClass                        `json:"taxClasses"`
	BatchDetailsByClass map[domain.TaxClass][]domain.BatchDetail `json:"batchDetailsByTaxClass"`
	Unclassified        []domain.UnclassifiedBatch               `json:"unclassified,omitempty"`
}
