package services

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
)

// ReconciliationReaderSvc defines the computed reconciliation queries.
type ReconciliationReaderSvc interface {
	// GetSummary computes the full reconciliation as of a date. periodStart, when
	// set, scopes removals and chains the opening reference to the previous period.
	GetSummary(ctx context.Context, organizationID string, asOf time.Time, periodStart *time.Time) (*domain.ReconciliationSummary, error)

	// GetLastReconciliation returns the most recent saved snapshot, or nil when
	// the organization has never reconciled (not an error).
	GetLastReconciliation(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error)

	// GetHistory pages through saved snapshots, newest first.
	GetHistory(ctx context.Context, organizationID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error)
}

// ReconciliationWriterSvc defines the single persistent mutation of the engine.
type ReconciliationWriterSvc interface {
	// SaveReconciliation recomputes the summary for the requested date and
	// persists it as an immutable snapshot. Requires the admin role.
	SaveReconciliation(ctx context.Context, organizationID string, req dto.SaveReconciliationRequest, userID string) (*domain.ReconciliationSnapshot, error)
}

// ReconciliationSvcFacade combines all reconciliation operations.
type ReconciliationSvcFacade interface {
	ReconciliationReaderSvc
	ReconciliationWriterSvc
}
