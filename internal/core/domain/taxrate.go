package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is one row of the excise rate table, keyed by (taxClass, effective
// date range). Rates are configuration loaded from storage, never literals in
// business logic: TTB revises them by statute and historical re-filing must use
// the rate in effect at the time.
type TaxRate struct {
	RateID              string          `json:"rateID"`
	TaxClass            TaxClass        `json:"taxClass"`
	RatePerGallon       decimal.Decimal `json:"ratePerGallon"`         // dollars, fixed-point
	CreditRatePerGallon decimal.Decimal `json:"creditRatePerGallon"`   // small producer credit per eligible gallon
	CreditGallonCap     decimal.Decimal `json:"creditGallonCap"`       // max credit-eligible gallons per class (26 U.S.C. §5041 tier)
	EffectiveFrom       time.Time       `json:"effectiveFrom"`
	EffectiveTo         *time.Time      `json:"effectiveTo,omitempty"` // nil = open-ended
}

// InEffectOn reports whether the rate applies on the given date.
func (r TaxRate) InEffectOn(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !t.After(*r.EffectiveTo)
}

// TaxComputationRow is the tax owed for one tax class.
// Invariants: grossTax = taxableGallons × taxRate; netTax = grossTax − credit;
// the credit is capped so netTax is never negative.
type TaxComputationRow struct {
	TaxClass            TaxClass        `json:"taxClass,omitempty"` // empty on the aggregate row
	TaxableGallons      decimal.Decimal `json:"taxableGallons"`
	TaxRate             decimal.Decimal `json:"taxRate"`
	GrossTax            decimal.Decimal `json:"grossTax"`
	CreditGallons       decimal.Decimal `json:"smallProducerCreditGallons"`
	SmallProducerCredit decimal.Decimal `json:"smallProducerCredit"`
	NetTax              decimal.Decimal `json:"netTax"`
}
