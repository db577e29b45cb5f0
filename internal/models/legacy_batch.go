package models

import "time"

// LegacyBatch represents a manually entered pre-tracking inventory row.
type LegacyBatch struct {
	LegacyBatchID  string    `db:"legacy_batch_id"`
	OrganizationID string    `db:"organization_id"`
	TaxClass       string    `db:"tax_class"`
	Description    string    `db:"description"`
	VolumeLiters   float64   `db:"volume_liters"`
	EffectiveDate  time.Time `db:"effective_date"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
