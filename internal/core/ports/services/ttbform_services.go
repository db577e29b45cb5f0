package services

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// TTBFormSvcFacade builds the complete Report of Wine Premises Operations.
type TTBFormSvcFacade interface {
	// BuildForm populates every ledger and sub-block for the period, enforcing
	// the form's total-line identities. A ledger that cannot balance aborts the
	// build with a LedgerImbalanceError.
	BuildForm(ctx context.Context, organizationID string, periodStart, periodEnd time.Time) (*domain.TTBForm512017Data, error)
}

// TaxInput is the taxable and credit-eligible gallonage for one class.
type TaxInput struct {
	TaxableGallons        float64
	CreditEligibleGallons float64
}

// TaxSvcFacade computes excise tax from the rate table.
type TaxSvcFacade interface {
	// ComputeTax derives per-class rows and the aggregate net owed, using the
	// rates in effect on the given date. Credit is capped so net tax per class
	// is never negative.
	ComputeTax(ctx context.Context, inputs map[domain.TaxClass]TaxInput, asOf time.Time) ([]domain.TaxComputationRow, domain.TaxComputationRow, error)

	// ListRates exposes the rate table for review.
	ListRates(ctx context.Context) ([]domain.TaxRate, error)
}
