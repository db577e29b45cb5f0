package repositories

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// SpiritsAccount names the two balances reconciled in the distillery sub-block.
type SpiritsAccount string

const (
	SpiritsAccountCiderAtDSP SpiritsAccount = "CIDER_AT_DSP"
	SpiritsAccountBrandy     SpiritsAccount = "BRANDY"
)

// DistilleryRepository reads DSP movements and spirits balances.
type DistilleryRepository interface {
	FindBrandyTransfers(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BrandyTransfer, error)

	// FindSpiritsBalance returns the recorded balance of the account as of the
	// given date, or 0 when none has been recorded.
	FindSpiritsBalance(ctx context.Context, organizationID string, account SpiritsAccount, asOf time.Time) (float64, error)
}

// MaterialsRepository aggregates materials received and used over a period.
type MaterialsRepository interface {
	SumMaterials(ctx context.Context, organizationID string, from, to time.Time) (domain.MaterialsUsage, error)
}

// RateRepository reads the excise rate table.
type RateRepository interface {
	// FindRatesEffectiveOn returns the rate row in effect on the date for every
	// tax class.
	FindRatesEffectiveOn(ctx context.Context, on time.Time) ([]domain.TaxRate, error)

	// ListRates returns the full table, newest effective date first.
	ListRates(ctx context.Context) ([]domain.TaxRate, error)
}
