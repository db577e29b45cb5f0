package mapping

import (
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/models"
)

// ToModelLegacyBatch converts a domain LegacyBatch to its model form.
func ToModelLegacyBatch(d domain.LegacyBatch) models.LegacyBatch {
	return models.LegacyBatch{
		LegacyBatchID:  d.LegacyBatchID,
		OrganizationID: d.OrganizationID,
		TaxClass:       string(d.TaxClass),
		Description:    d.Description,
		VolumeLiters:   d.VolumeLiters,
		EffectiveDate:  d.EffectiveDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainLegacyBatch converts a model LegacyBatch to its domain form.
func ToDomainLegacyBatch(m models.LegacyBatch) domain.LegacyBatch {
	return domain.LegacyBatch{
		LegacyBatchID:  m.LegacyBatchID,
		OrganizationID: m.OrganizationID,
		TaxClass:       domain.TaxClass(m.TaxClass),
		Description:    m.Description,
		VolumeLiters:   m.VolumeLiters,
		EffectiveDate:  m.EffectiveDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToDomainLegacyBatchSlice converts a slice of model LegacyBatches.
func ToDomainLegacyBatchSlice(ms []models.LegacyBatch) []domain.LegacyBatch {
	ds := make([]domain.LegacyBatch, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLegacyBatch(m)
	}
	return ds
}
