package domain

import "time"

// PressRun is a source-of-truth production input: fruit pressed on premises.
// The tax class of the eventual product is assigned at entry so production audit
// totals can be partitioned without consulting later batch state.
type PressRun struct {
	PressRunID     string    `json:"pressRunID"`
	OrganizationID string    `json:"organizationID"`
	TaxClass       TaxClass  `json:"taxClass"`
	FruitPounds    float64   `json:"fruitPounds"`
	JuiceLiters    float64   `json:"juiceLiters"`
	PressedAt      time.Time `json:"pressedAt"`
}

// JuicePurchase is a source-of-truth production input: juice bought in.
type JuicePurchase struct {
	PurchaseID     string    `json:"purchaseID"`
	OrganizationID string    `json:"organizationID"`
	TaxClass       TaxClass  `json:"taxClass"`
	JuiceLiters    float64   `json:"juiceLiters"`
	PurchasedAt    time.Time `json:"purchasedAt"`
}

// ProductionYearTotals is the production audit for one calendar year: how much
// was ever produced, summed from source records only. It is computed without
// reference to current inventory; the reconciliation engine cross-checks the two.
type ProductionYearTotals struct {
	Year                int                  `json:"year"`
	ByClass             map[TaxClass]float64 `json:"byClass"` // liters, keyed over AllTaxClasses
	PressRunLiters      float64              `json:"pressRunLiters"`
	JuicePurchaseLiters float64              `json:"juicePurchaseLiters"`
	TotalLiters         float64              `json:"totalLiters"`
}
