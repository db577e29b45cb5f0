package mapping

import (
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/models"
)

// ToDomainTaxRate converts a model TaxRate to its domain form.
func ToDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		RateID:              m.RateID,
		TaxClass:            domain.TaxClass(m.TaxClass),
		RatePerGallon:       m.RatePerGallon,
		CreditRatePerGallon: m.CreditRatePerGallon,
		CreditGallonCap:     m.CreditGallonCap,
		EffectiveFrom:       m.EffectiveFrom,
		EffectiveTo:         m.EffectiveTo,
	}
}

// ToDomainTaxRateSlice converts a slice of model TaxRates.
func ToDomainTaxRateSlice(ms []models.TaxRate) []domain.TaxRate {
	ds := make([]domain.TaxRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTaxRate(m)
	}
	return ds
}
