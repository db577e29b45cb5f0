package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/models"
)

// ToModelReconciliationSnapshot converts a domain snapshot to its model form,
// serializing the computed summary as JSON.
func ToModelReconciliationSnapshot(d domain.ReconciliationSnapshot) (models.ReconciliationSnapshot, error) {
	summaryJSON, err := json.Marshal(d.Summary)
	if err != nil {
		return models.ReconciliationSnapshot{}, fmt.Errorf("failed to marshal reconciliation summary: %w", err)
	}
	return models.ReconciliationSnapshot{
		ReconciliationID:         d.ReconciliationID,
		OrganizationID:           d.OrganizationID,
		ReconciliationDate:       d.ReconciliationDate,
		Name:                     d.Name,
		Notes:                    d.Notes,
		PeriodStartDate:          d.PeriodStartDate,
		PeriodEndDate:            d.PeriodEndDate,
		PreviousReconciliationID: d.PreviousReconciliationID,
		SummaryJSON:              summaryJSON,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainReconciliationSnapshot converts a model snapshot back to its domain
// form, deserializing the stored summary.
func ToDomainReconciliationSnapshot(m models.ReconciliationSnapshot) (domain.ReconciliationSnapshot, error) {
	var summary domain.ReconciliationSummary
	if err := json.Unmarshal(m.SummaryJSON, &summary); err != nil {
		return domain.ReconciliationSnapshot{}, fmt.Errorf("failed to unmarshal reconciliation summary %s: %w", m.ReconciliationID, err)
	}
	return domain.ReconciliationSnapshot{
		ReconciliationID:         m.ReconciliationID,
		OrganizationID:           m.OrganizationID,
		ReconciliationDate:       m.ReconciliationDate,
		Name:                     m.Name,
		Notes:                    m.Notes,
		PeriodStartDate:          m.PeriodStartDate,
		PeriodEndDate:            m.PeriodEndDate,
		PreviousReconciliationID: m.PreviousReconciliationID,
		Summary:                  summary,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}, nil
}
