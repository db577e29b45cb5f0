package domain

import "time"

// LegacyBatch is a manually entered inventory record for volume that predates
// system tracking. It exists purely to close reconciliation gaps: it contributes
// to the legacyBatches total but never to production audit totals, because it has
// no traceable source record.
type LegacyBatch struct {
	LegacyBatchID  string    `json:"legacyBatchID"`
	OrganizationID string    `json:"organizationID"`
	TaxClass       TaxClass  `json:"taxClass"`
	Description    string    `json:"description"`
	VolumeLiters   float64   `json:"volumeLiters"`
	EffectiveDate  time.Time `json:"effectiveDate"` // date the volume is deemed to exist from
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
