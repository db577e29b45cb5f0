package models

import "time"

// ReconciliationSnapshot represents a persisted reconciliation. The full
// computed summary is stored as a JSONB document: snapshots are immutable and
// read back whole, so relational decomposition of the breakdown buys nothing.
type ReconciliationSnapshot struct {
	ReconciliationID         string     `db:"reconciliation_id"`
	OrganizationID           string     `db:"organization_id"`
	ReconciliationDate       time.Time  `db:"reconciliation_date"`
	Name                     string     `db:"name"`
	Notes                    string     `db:"notes"`
	PeriodStartDate          *time.Time `db:"period_start_date"`
	PeriodEndDate            *time.Time `db:"period_end_date"`
	PreviousReconciliationID *string    `db:"previous_reconciliation_id"`
	SummaryJSON              []byte     `db:"summary"`
	AuditFields
}
