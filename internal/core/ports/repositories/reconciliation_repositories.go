package repositories

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// ReconciliationRepository persists immutable reconciliation snapshots.
type ReconciliationRepository interface {
	// SaveSnapshot commits the full snapshot atomically: either every breakdown
	// is persisted or nothing is.
	SaveSnapshot(ctx context.Context, snapshot domain.ReconciliationSnapshot) error

	// FindLastSnapshot returns the most recent snapshot by reconciliation date,
	// or apperrors.ErrNotFound when the organization has never reconciled.
	FindLastSnapshot(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error)

	// FindSnapshotByID returns a specific snapshot.
	FindSnapshotByID(ctx context.Context, organizationID, reconciliationID string) (*domain.ReconciliationSnapshot, error)

	// ListSnapshots pages through history, newest first, using a keyset token.
	ListSnapshots(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.ReconciliationSnapshot, *string, error)
}

// OpeningBalanceRepository reads government-reported opening balances.
type OpeningBalanceRepository interface {
	// FindOpeningBalances returns the balances from the latest balance date on
	// or before asOf, or apperrors.ErrNotFound when none have been entered.
	FindOpeningBalances(ctx context.Context, organizationID string, asOf time.Time) ([]domain.OpeningBalance, error)
}

// LegacyBatchRepository persists manually entered pre-tracking inventory.
type LegacyBatchRepository interface {
	SaveLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error
	UpdateLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error
	// DeleteLegacyBatch soft-deletes the record.
	DeleteLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, deletedBy string, deletedAt time.Time) error
	FindLegacyBatchByID(ctx context.Context, organizationID, legacyBatchID string) (*domain.LegacyBatch, error)
	// FindLegacyBatches returns records effective on or before asOf, excluding deleted.
	FindLegacyBatches(ctx context.Context, organizationID string, asOf time.Time) ([]domain.LegacyBatch, error)
}
