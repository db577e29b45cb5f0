package repositories

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// InventoryRepository reads the point-in-time inventory source data. Historical
// as-of queries return the state as it stood on the given date, not live state.
type InventoryRepository interface {
	// FindBatchSnapshotsAsOf returns, for each batch, the latest snapshot dated
	// on or before asOf. Batches merged away by that date carry MergedIntoBatchID.
	FindBatchSnapshotsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.BatchSnapshot, error)

	// FindPackagingRunsAsOf returns packaging runs completed on or before asOf,
	// including those since removed (RemovedAt set) so callers can filter.
	FindPackagingRunsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.PackagingRun, error)

	// FindVessels returns the organization's vessels keyed by vessel ID.
	FindVessels(ctx context.Context, organizationID string) (map[string]domain.Vessel, error)
}

// ProductionRepository reads source-of-truth production inputs. It is the
// independent accounting path cross-checked against inventory.
type ProductionRepository interface {
	FindPressRuns(ctx context.Context, organizationID string, from, to time.Time) ([]domain.PressRun, error)
	FindJuicePurchases(ctx context.Context, organizationID string, from, to time.Time) ([]domain.JuicePurchase, error)
}

// RemovalRepository reads removals from bond.
type RemovalRepository interface {
	FindRemovals(ctx context.Context, organizationID string, from, to time.Time) ([]domain.Removal, error)
}
