package domain

import (
	"math"
	"time"
)

// ReconciliationToleranceGallons is the fixed half-gallon tolerance under which a
// variance is considered reconciled. The comparison is strict (< 0.5, not <=);
// this threshold is a deliberate business rule reflecting realistic measurement
// precision and must be preserved exactly.
const ReconciliationToleranceGallons = 0.5

// Variance guidance, keyed off the sign convention: positive difference means the
// TTB-reported balance exceeds what the system can account for.
const (
	GuidancePositiveVariance = "TTB shows more than the system can account for; record the untracked volume as a legacy batch"
	GuidanceNegativeVariance = "System shows more than TTB recorded; correct the opening balance or an initial batch volume"
)

// ReconciliationRow compares TTB-reported balance against system state for one
// tax class (or the grand total). All figures are wine gallons.
type ReconciliationRow struct {
	TaxClass         TaxClass `json:"taxClass,omitempty"` // empty on the total row
	TTBGallons       float64  `json:"ttbGallons"`
	InventoryGallons float64  `json:"inventoryGallons"`   // bulk + packaged on hand
	RemovalsGallons  float64  `json:"removalsGallons"`
	LegacyGallons    float64  `json:"legacyGallons"`
	Difference       float64  `json:"difference"`
	IsReconciled     bool     `json:"isReconciled"`
	Guidance         string   `json:"guidance,omitempty"`
}

// NewReconciliationRow computes the canonical residual for one row:
//
//	difference = ttb − (inventory + removals + legacy)
//
// The residual form is used (rather than any delta-based variant) because it is
// auditable per tax class: each term is independently queryable.
func NewReconciliationRow(taxClass TaxClass, ttb, inventory, removals, legacy float64) ReconciliationRow {
	row := ReconciliationRow{
		TaxClass:         taxClass,
		TTBGallons:       ttb,
		InventoryGallons: inventory,
		RemovalsGallons:  removals,
		LegacyGallons:    legacy,
	}
	row.Difference = ttb - (inventory + removals + legacy)
	row.IsReconciled = math.Abs(row.Difference) < ReconciliationToleranceGallons
	if !row.IsReconciled {
		if row.Difference > 0 {
			row.Guidance = GuidancePositiveVariance
		} else {
			row.Guidance = GuidanceNegativeVariance
		}
	}
	return row
}

// InventorySummary is on-hand volume split by holding state, in liters.
type InventorySummary struct {
	BulkLiters     float64 `json:"bulkLiters"`
	PackagedLiters float64 `json:"packagedLiters"`
	TotalLiters    float64 `json:"totalLiters"`
}

// UnclassifiedBatch flags a record excluded from class totals because it could
// not be assigned a tax class. It is surfaced, never silently dropped or guessed.
type UnclassifiedBatch struct {
	BatchID      string  `json:"batchID"`
	VolumeLiters float64 `json:"volumeLiters"`
	Reason       string  `json:"reason"`
}

// InventoryBreakdown is the inventory aggregator output for an as-of date.
type InventoryBreakdown struct {
	AsOf         time.Time                     `json:"asOf"`
	ByClass      map[TaxClass]InventorySummary `json:"byClass"` // populated for every class in AllTaxClasses
	Totals       InventorySummary              `json:"totals"`
	Unclassified []UnclassifiedBatch           `json:"unclassified,omitempty"`
}

// InventoryYearRow groups on-hand inventory by harvest year for the summary view.
type InventoryYearRow struct {
	Year           int     `json:"year"`
	BulkLiters     float64 `json:"bulkLiters"`
	PackagedLiters float64 `json:"packagedLiters"`
	TotalLiters    float64 `json:"totalLiters"`
}

// BatchDetail is the per-batch drill-down shown under each tax class.
type BatchDetail struct {
	BatchID      string  `json:"batchID"`
	VolumeLiters float64 `json:"volumeLiters"`
	Packaged     bool    `json:"packaged"`
	HarvestYear  int     `json:"harvestYear"`
}

// ReconciliationSummary is the full computed reconciliation for an as-of date.
// It is a pure function of (asOfDate, periodStart, stored data); saving one
// captures it immutably as a ReconciliationSnapshot.
type ReconciliationSummary struct {
	ReconciliationDate  time.Time                  `json:"reconciliationDate"`
	HasOpeningBalances  bool                       `json:"hasOpeningBalances"`
	OpeningBalanceDate  *time.Time                 `json:"openingBalanceDate,omitempty"`
	Totals              ReconciliationRow          `json:"totals"`
	Breakdown           []ReconciliationRow        `json:"breakdown"`           // one row per class, AllTaxClasses order
	InventoryByYear     []InventoryYearRow         `json:"inventoryByYear"`
	ProductionAudit     []ProductionYearTotals     `json:"productionAudit"`
	TaxClasses          []TaxClass                 `json:"taxClasses"`
	BatchDetailsByClass map[TaxClass][]BatchDetail `json:"batchDetailsByTaxClass"`
	Unclassified        []UnclassifiedBatch        `json:"unclassified,omitempty"`
	EndingOnHandByClass map[TaxClass]float64       `json:"endingOnHandByClass"` // gallons; feeds the next period's opening reference
}

// ReconciliationSnapshot is an immutable persisted reconciliation, keyed by
// (organization, reconciliationDate). Created only by an explicit save; later
// snapshots supersede rather than delete it. PreviousReconciliationID chains
// successive periods.
type ReconciliationSnapshot struct {
	ReconciliationID         string                `json:"reconciliationID"`
	OrganizationID           string                `json:"organizationID"`
	ReconciliationDate       time.Time             `json:"reconciliationDate"`
	Name                     string                `json:"name,omitempty"`
	Notes                    string                `json:"notes,omitempty"`
	PeriodStartDate          *time.Time            `json:"periodStartDate,omitempty"`
	PeriodEndDate            *time.Time            `json:"periodEndDate,omitempty"`
	PreviousReconciliationID *string               `json:"previousReconciliationId,omitempty"`
	Summary                  ReconciliationSummary `json:"summary"`
	AuditFields
}

// OpeningBalance is a government-reported opening balance for one tax class,
// entered from the last filed 5120.17.
type OpeningBalance struct {
	OrganizationID string    `json:"organizationID"`
	BalanceDate    time.Time `json:"balanceDate"`
	TaxClass       TaxClass  `json:"taxClass"`
	Gallons        float64   `json:"gallons"`
}
