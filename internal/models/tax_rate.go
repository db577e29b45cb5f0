package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate represents one row of the excise rate table.
type TaxRate struct {
	RateID              string          `db:"rate_id"`
	TaxClass            string          `db:"tax_class"`
	RatePerGallon       decimal.Decimal `db:"rate_per_gallon"`
	CreditRatePerGallon decimal.Decimal `db:"credit_rate_per_gallon"`
	CreditGallonCap     decimal.Decimal `db:"credit_gallon_cap"`
	EffectiveFrom       time.Time       `db:"effective_from"`
	EffectiveTo         *time.Time      `db:"effective_to"`
}
