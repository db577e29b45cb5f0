package services

import (
	"context"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// InventorySvcFacade is the inventory aggregator: on-hand volume per tax class
// as of an arbitrary date, reconstructed from point-in-time snapshots.
type InventorySvcFacade interface {
	// CurrentInventory sums bulk and packaged volume per tax class as of asOf.
	// filter, when non-nil, restricts the result to one class.
	CurrentInventory(ctx context.Context, organizationID string, asOf time.Time, filter *domain.TaxClass) (*domain.InventoryBreakdown, error)

	// InventoryByYear groups the same on-hand volume by harvest year.
	InventoryByYear(ctx context.Context, organizationID string, asOf time.Time) ([]domain.InventoryYearRow, error)

	// BatchDetails returns the per-batch drill-down per tax class.
	BatchDetails(ctx context.Context, organizationID string, asOf time.Time) (map[domain.TaxClass][]domain.BatchDetail, error)

	// InFermenterLiters sums bulk volume sitting in fermenting vessels.
	InFermenterLiters(ctx context.Context, organizationID string, asOf time.Time) (float64, error)
}

// ProductionSvcFacade is the production audit aggregator: how much was ever
// produced, from source records only. It never reads inventory state; the
// reconciliation engine cross-checks the two paths.
type ProductionSvcFacade interface {
	ProductionTotals(ctx context.Context, organizationID string, startYear, endYear int) ([]domain.ProductionYearTotals, error)
}
