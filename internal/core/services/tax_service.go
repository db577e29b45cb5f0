package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
)

// taxService computes excise tax from the stored rate table. All money math is
// fixed-point decimal; gallonage enters as decimal at the boundary and stays
// decimal through the computation.
type taxService struct {
	rateRepo portsrepo.RateRepository
}

// NewTaxService creates the tax computation service.
func NewTaxService(rateRepo portsrepo.RateRepository) portssvc.TaxSvcFacade {
	return &taxService{rateRepo: rateRepo}
}

var _ portssvc.TaxSvcFacade = (*taxService)(nil)

// ComputeTax implements portssvc.TaxSvcFacade.
func (s *taxService) ComputeTax(ctx context.Context, inputs map[domain.TaxClass]portssvc.TaxInput, asOf time.Time) ([]domain.TaxComputationRow, domain.TaxComputationRow, error) {
	var total domain.TaxComputationRow

	rates, err := s.rateRepo.FindRatesEffectiveOn(ctx, asOf)
	if err != nil {
		return nil, total, fmt.Errorf("failed to load tax rates: %w", err)
	}
	rateByClass := make(map[domain.TaxClass]domain.TaxRate, len(rates))
	for _, r := range rates {
		rateByClass[r.TaxClass] = r
	}

	rows := make([]domain.TaxComputationRow, 0, len(inputs))
	for _, tc := range domain.AllTaxClasses {
		input, ok := inputs[tc]
		if !ok {
			continue
		}
		rate, ok := rateByClass[tc]
		if !ok {
			if input.TaxableGallons == 0 {
				continue
			}
			return nil, total, fmt.Errorf("no tax rate in effect on %s for class %s: %w",
				asOf.Format(time.DateOnly), tc, apperrors.ErrNotFound)
		}
		if input.TaxableGallons < 0 || input.CreditEligibleGallons < 0 {
			return nil, total, fmt.Errorf("negative gallonage for class %s: %w", tc, apperrors.ErrValidation)
		}

		taxable := decimal.NewFromFloat(input.TaxableGallons)
		gross := taxable.Mul(rate.RatePerGallon)

		// Credit applies to eligible gallons up to the statutory cap, and never
		// beyond the gross tax itself: net tax per class cannot go negative.
		creditGallons := decimal.NewFromFloat(input.CreditEligibleGallons)
		if creditGallons.GreaterThan(taxable) {
			creditGallons = taxable
		}
		if creditGallons.GreaterThan(rate.CreditGallonCap) {
			creditGallons = rate.CreditGallonCap
		}
		credit := creditGallons.Mul(rate.CreditRatePerGallon)
		if credit.GreaterThan(gross) {
			credit = gross
		}

		row := domain.TaxComputationRow{
			TaxClass:            tc,
			TaxableGallons:      taxable,
			TaxRate:             rate.RatePerGallon,
			GrossTax:            gross,
			CreditGallons:       creditGallons,
			SmallProducerCredit: credit,
			NetTax:              gross.Sub(credit),
		}
		rows = append(rows, row)

		total.TaxableGallons = total.TaxableGallons.Add(row.TaxableGallons)
		total.GrossTax = total.GrossTax.Add(row.GrossTax)
		total.CreditGallons = total.CreditGallons.Add(row.CreditGallons)
		total.SmallProducerCredit = total.SmallProducerCredit.Add(row.SmallProducerCredit)
		total.NetTax = total.NetTax.Add(row.NetTax)
	}

	return rows, total, nil
}

// ListRates implements portssvc.TaxSvcFacade.
func (s *taxService) ListRates(ctx context.Context) ([]domain.TaxRate, error) {
	return s.rateRepo.ListRates(ctx)
}
