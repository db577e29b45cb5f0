package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
	"github.com/orchardgauge/cidery_production_app/internal/utils/excise"
)

// inventoryService sums on-hand volume per tax class as of an arbitrary date.
// It works from point-in-time snapshots so historical reconciliations can
// reconstruct inventory as it stood, not as it is now.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepository
}

// NewInventoryService creates the inventory aggregator.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepository) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// onHand fetches and filters the raw inventory records for asOf:
// bulk snapshots (excluding merged-away batches) and unremoved packaging runs.
func (s *inventoryService) onHand(ctx context.Context, organizationID string, asOf time.Time) ([]domain.BatchSnapshot, []domain.PackagingRun, error) {
	snapshots, err := s.inventoryRepo.FindBatchSnapshotsAsOf(ctx, organizationID, asOf)
	if err != nil {
		return nil, nil, err
	}

	bulk := make([]domain.BatchSnapshot, 0, len(snapshots))
	for _, b := range snapshots {
		// A batch blended into another batch contributes nothing: the merged
		// batch carries the combined volume once.
		if b.MergedIntoBatchID != nil {
			continue
		}
		if b.VesselID == nil {
			continue // fully packaged; volume lives in packaging runs
		}
		bulk = append(bulk, b)
	}

	runs, err := s.inventoryRepo.FindPackagingRunsAsOf(ctx, organizationID, asOf)
	if err != nil {
		return nil, nil, err
	}
	packaged := make([]domain.PackagingRun, 0, len(runs))
	for _, p := range runs {
		if p.RemovedAt != nil && !p.RemovedAt.After(asOf) {
			continue // already removed/sold by the as-of date
		}
		packaged = append(packaged, p)
	}

	return bulk, packaged, nil
}

// CurrentInventory implements portssvc.InventorySvcFacade.
func (s *inventoryService) CurrentInventory(ctx context.Context, organizationID string, asOf time.Time, filter *domain.TaxClass) (*domain.InventoryBreakdown, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bulk, packaged, err := s.onHand(ctx, organizationID, asOf)
	if err != nil {
		return nil, err
	}

	breakdown := &domain.InventoryBreakdown{
		AsOf:    asOf,
		ByClass: make(map[domain.TaxClass]domain.InventorySummary, len(domain.AllTaxClasses)),
	}
	for _, tc := range domain.AllTaxClasses {
		breakdown.ByClass[tc] = domain.InventorySummary{}
	}

	for _, b := range bulk {
		tc, err := excise.ClassifyBatch(b)
		if err != nil {
			// Per-record failure: exclude and flag, never abort the aggregation.
			logger.Warn("Excluding unclassifiable batch from inventory",
				slog.String("batch_id", b.BatchID), slog.String("error", err.Error()))
			breakdown.Unclassified = append(breakdown.Unclassified, domain.UnclassifiedBatch{
				BatchID:      b.BatchID,
				VolumeLiters: b.VolumeLiters,
				Reason:       err.Error(),
			})
			continue
		}
		if filter != nil && tc != *filter {
			continue
		}
		cls := breakdown.ByClass[tc]
		cls.BulkLiters += b.VolumeLiters
		cls.TotalLiters += b.VolumeLiters
		breakdown.ByClass[tc] = cls
	}

	for _, p := range packaged {
		tc, err := excise.ClassifyPackaging(p)
		if err != nil {
			logger.Warn("Excluding unclassifiable packaging run from inventory",
				slog.String("packaging_id", p.PackagingID), slog.String("error", err.Error()))
			breakdown.Unclassified = append(breakdown.Unclassified, domain.UnclassifiedBatch{
				BatchID:      p.BatchID,
				VolumeLiters: p.VolumeLiters,
				Reason:       err.Error(),
			})
			continue
		}
		if filter != nil && tc != *filter {
			continue
		}
		cls := breakdown.ByClass[tc]
		cls.PackagedLiters += p.VolumeLiters
		cls.TotalLiters += p.VolumeLiters
		breakdown.ByClass[tc] = cls
	}

	for _, tc := range domain.AllTaxClasses {
		cls := breakdown.ByClass[tc]
		breakdown.Totals.BulkLiters += cls.BulkLiters
		breakdown.Totals.PackagedLiters += cls.PackagedLiters
		breakdown.Totals.TotalLiters += cls.TotalLiters
	}

	return breakdown, nil
}

// InventoryByYear implements portssvc.InventorySvcFacade.
func (s *inventoryService) InventoryByYear(ctx context.Context, organizationID string, asOf time.Time) ([]domain.InventoryYearRow, error) {
	bulk, packaged, err := s.onHand(ctx, organizationID, asOf)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*domain.InventoryYearRow)
	rowFor := func(year int) *domain.InventoryYearRow {
		if row, ok := byYear[year]; ok {
			return row
		}
		row := &domain.InventoryYearRow{Year: year}
		byYear[year] = row
		return row
	}

	for _, b := range bulk {
		row := rowFor(b.HarvestYear)
		row.BulkLiters += b.VolumeLiters
		row.TotalLiters += b.VolumeLiters
	}
	for _, p := range packaged {
		row := rowFor(p.HarvestYear)
		row.PackagedLiters += p.VolumeLiters
		row.TotalLiters += p.VolumeLiters
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([]domain.InventoryYearRow, 0, len(years))
	for _, y := range years {
		rows = append(rows, *byYear[y])
	}
	return rows, nil
}

// BatchDetails implements portssvc.InventorySvcFacade.
func (s *inventoryService) BatchDetails(ctx context.Context, organizationID string, asOf time.Time) (map[domain.TaxClass][]domain.BatchDetail, error) {
	bulk, packaged, err := s.onHand(ctx, organizationID, asOf)
	if err != nil {
		return nil, err
	}

	details := make(map[domain.TaxClass][]domain.BatchDetail, len(domain.AllTaxClasses))
	for _, b := range bulk {
		tc, err := excise.ClassifyBatch(b)
		if err != nil {
			continue // surfaced via CurrentInventory's unclassified bucket
		}
		details[tc] = append(details[tc], domain.BatchDetail{
			BatchID:      b.BatchID,
			VolumeLiters: b.VolumeLiters,
			HarvestYear:  b.HarvestYear,
		})
	}
	for _, p := range packaged {
		tc, err := excise.ClassifyPackaging(p)
		if err != nil {
			continue
		}
		details[tc] = append(details[tc], domain.BatchDetail{
			BatchID:      p.BatchID,
			VolumeLiters: p.VolumeLiters,
			Packaged:     true,
			HarvestYear:  p.HarvestYear,
		})
	}
	return details, nil
}

// InFermenterLiters implements portssvc.InventorySvcFacade.
func (s *inventoryService) InFermenterLiters(ctx context.Context, organizationID string, asOf time.Time) (float64, error) {
	bulk, _, err := s.onHand(ctx, organizationID, asOf)
	if err != nil {
		return 0, err
	}
	vessels, err := s.inventoryRepo.FindVessels(ctx, organizationID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, b := range bulk {
		if b.InFermenter(vessels) {
			total += b.VolumeLiters
		}
	}
	return total, nil
}
