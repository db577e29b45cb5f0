package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
	"github.com/orchardgauge/cidery_production_app/internal/utils/excise"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

// bulkPosition splits a class's bulk on-hand between fermenting and storage
// vessels, in liters.
type bulkPosition struct {
	FermenterLiters float64
	StorageLiters   float64
}

// ttbFormService assembles TTB F 5120.17 from inventory state at the period
// boundaries plus the movement records inside the period. Production by
// fermentation is derived from the ledger identity rather than entered, so the
// form always balances against what the cellar actually holds.
type ttbFormService struct {
	inventoryRepo  portsrepo.InventoryRepository
	removalRepo    portsrepo.RemovalRepository
	distilleryRepo portsrepo.DistilleryRepository
	materialsRepo  portsrepo.MaterialsRepository
}

// NewTTBFormService creates the form builder.
func NewTTBFormService(
	inventoryRepo portsrepo.InventoryRepository,
	removalRepo portsrepo.RemovalRepository,
	distilleryRepo portsrepo.DistilleryRepository,
	materialsRepo portsrepo.MaterialsRepository,
) portssvc.TTBFormSvcFacade {
	return &ttbFormService{
		inventoryRepo:  inventoryRepo,
		removalRepo:    removalRepo,
		distilleryRepo: distilleryRepo,
		materialsRepo:  materialsRepo,
	}
}

var _ portssvc.TTBFormSvcFacade = (*ttbFormService)(nil)

// bulkByClass returns the classified bulk position as of a date. Unclassifiable
// batches are skipped here; the reconciliation summary is where they surface.
func (s *ttbFormService) bulkByClass(ctx context.Context, organizationID string, asOf time.Time) (map[domain.TaxClass]bulkPosition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snapshots, err := s.inventoryRepo.FindBatchSnapshotsAsOf(ctx, organizationID, asOf)
	if err != nil {
		return nil, err
	}
	vessels, err := s.inventoryRepo.FindVessels(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.TaxClass]bulkPosition, len(domain.AllTaxClasses))
	for _, b := range snapshots {
		if b.MergedIntoBatchID != nil || b.VesselID == nil {
			continue
		}
		tc, err := excise.ClassifyBatch(b)
		if err != nil {
			logger.Warn("Excluding unclassifiable batch from form",
				slog.String("batch_id", b.BatchID), slog.String("error", err.Error()))
			continue
		}
		pos := out[tc]
		if b.InFermenter(vessels) {
			pos.FermenterLiters += b.VolumeLiters
		} else {
			pos.StorageLiters += b.VolumeLiters
		}
		out[tc] = pos
	}
	return out, nil
}

// packagedByClass returns on-hand packaged liters per class as of a date.
func (s *ttbFormService) packagedByClass(ctx context.Context, organizationID string, asOf time.Time) (map[domain.TaxClass]float64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	runs, err := s.inventoryRepo.FindPackagingRunsAsOf(ctx, organizationID, asOf)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, p := range runs {
		if p.RemovedAt != nil && !p.RemovedAt.After(asOf) {
			continue
		}
		tc, err := excise.ClassifyPackaging(p)
		if err != nil {
			logger.Warn("Excluding unclassifiable packaging run from form",
				slog.String("packaging_id", p.PackagingID), slog.String("error", err.Error()))
			continue
		}
		out[tc] += p.VolumeLiters
	}
	return out, nil
}

// bottledInPeriod sums liters bottled per class strictly inside the period.
// Runs dated exactly at the period start already sit in the opening bottled
// inventory and must not be counted again.
func (s *ttbFormService) bottledInPeriod(ctx context.Context, organizationID string, periodStart, periodEnd time.Time) (map[domain.TaxClass]float64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	runs, err := s.inventoryRepo.FindPackagingRunsAsOf(ctx, organizationID, periodEnd)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, p := range runs {
		if !p.PackagedAt.After(periodStart) || p.PackagedAt.After(periodEnd) {
			continue
		}
		tc, err := excise.ClassifyPackaging(p)
		if err != nil {
			logger.Warn("Excluding unclassifiable packaging run from form",
				slog.String("packaging_id", p.PackagingID), slog.String("error", err.Error()))
			continue
		}
		out[tc] += p.VolumeLiters
	}
	return out, nil
}

// buildBulkLedger fills one class's bulk section. Dispositions and ending
// inventory are measured facts; the production lines absorb the remainder so
// the availability identity holds. A negative remainder is not production but
// unexplained loss, which lands on the inventory shortage line.
func buildBulkLedger(opening bulkPosition, ending bulkPosition, removals map[domain.RemovalKind]float64, bottledGal float64) *domain.BulkWinesLedger {
	l := &domain.BulkWinesLedger{
		Line1OnHandFirstOfPeriod:  volume.LitersToGallons(opening.FermenterLiters + opening.StorageLiters),
		Line12RemovedTaxpaid:      removals[domain.RemovalTaxpaid],
		Line13TransferredInBond:   removals[domain.RemovalInBond],
		Line14RemovedForExport:    removals[domain.RemovalExport],
		Line15BottledOrPacked:     bottledGal,
		Line16UsedForDistilling:   removals[domain.RemovalDistilling],
		Line20UsedForTasting:      removals[domain.RemovalTastingRoom],
		Line21Destroyed:           removals[domain.RemovalDestroyed],
		Line22BreakageAndCasualty: removals[domain.RemovalBreakage],
		Line26OtherRemovals:       removals[domain.RemovalOther],
		Line28OnHandInFermenters:  volume.LitersToGallons(ending.FermenterLiters),
		Line29OnHandInStorage:     volume.LitersToGallons(ending.StorageLiters),
	}

	dispositions := l.Line12RemovedTaxpaid + l.Line13TransferredInBond + l.Line14RemovedForExport +
		l.Line15BottledOrPacked + l.Line16UsedForDistilling + l.Line20UsedForTasting +
		l.Line21Destroyed + l.Line22BreakageAndCasualty + l.Line26OtherRemovals
	onHandEnd := l.Line28OnHandInFermenters + l.Line29OnHandInStorage

	produced := dispositions + onHandEnd - l.Line1OnHandFirstOfPeriod
	if produced >= 0 {
		l.Line2ProducedByFermentation = produced
	} else {
		l.Line24InventoryShortage = -produced
	}

	l.ComputeTotals()
	return l
}

// buildBottledLedger fills one class's bottled section on the same principle:
// the gain and shortage lines absorb the residual between the measured sides.
func buildBottledLedger(openingGal, endingGal, bottledGal float64, removals map[domain.RemovalKind]float64) *domain.BottledWinesLedger {
	l := &domain.BottledWinesLedger{
		Line1OnHandFirstOfPeriod:  openingGal,
		Line2BottledOrPacked:      bottledGal,
		Line8RemovedTaxpaid:       removals[domain.RemovalTaxpaid],
		Line9TransferredInBond:    removals[domain.RemovalInBond],
		Line10RemovedForExport:    removals[domain.RemovalExport],
		Line13UsedForTasting:      removals[domain.RemovalTastingRoom],
		Line14Destroyed:           removals[domain.RemovalDestroyed],
		Line15BreakageAndCasualty: removals[domain.RemovalBreakage],
		Line18OtherRemovals:       removals[domain.RemovalOther] + removals[domain.RemovalDistilling],
		Line20OnHandEndOfPeriod:   endingGal,
	}

	dispositions := l.Line8RemovedTaxpaid + l.Line9TransferredInBond + l.Line10RemovedForExport +
		l.Line13UsedForTasting + l.Line14Destroyed + l.Line15BreakageAndCasualty +
		l.Line18OtherRemovals
	receipts := l.Line1OnHandFirstOfPeriod + l.Line2BottledOrPacked
	residual := receipts - (dispositions + l.Line20OnHandEndOfPeriod)
	if residual >= 0 {
		l.Line16InventoryShortage = residual
	} else {
		l.Line5InventoryGains = -residual
	}

	l.ComputeTotals()
	return l
}

// BuildForm implements portssvc.TTBFormSvcFacade.
func (s *ttbFormService) BuildForm(ctx context.Context, organizationID string, periodStart, periodEnd time.Time) (*domain.TTBForm512017Data, error) {
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("%w: period end %s must be after period start %s",
			apperrors.ErrValidation, periodEnd.Format(time.DateOnly), periodStart.Format(time.DateOnly))
	}

	openingBulk, err := s.bulkByClass(ctx, organizationID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to read opening bulk inventory: %w", err)
	}
	endingBulk, err := s.bulkByClass(ctx, organizationID, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read ending bulk inventory: %w", err)
	}
	openingBottled, err := s.packagedByClass(ctx, organizationID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to read opening bottled inventory: %w", err)
	}
	endingBottled, err := s.packagedByClass(ctx, organizationID, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read ending bottled inventory: %w", err)
	}
	bottled, err := s.bottledInPeriod(ctx, organizationID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read packaging runs: %w", err)
	}

	removals, err := s.removalRepo.FindRemovals(ctx, organizationID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load removals: %w", err)
	}
	bulkRemovals := make(map[domain.TaxClass]map[domain.RemovalKind]float64)
	bottledRemovals := make(map[domain.TaxClass]map[domain.RemovalKind]float64)
	taxable := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, r := range removals {
		target := bottledRemovals
		if r.FromBulk {
			target = bulkRemovals
		}
		if target[r.TaxClass] == nil {
			target[r.TaxClass] = make(map[domain.RemovalKind]float64)
		}
		gal := volume.LitersToGallons(r.VolumeLiters)
		target[r.TaxClass][r.Kind] += gal
		if r.Kind == domain.RemovalTaxpaid {
			taxable[r.TaxClass] += gal
		}
	}

	form := &domain.TTBForm512017Data{
		OrganizationID: organizationID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		BulkByClass:    make(map[domain.TaxClass]*domain.BulkWinesLedger, len(domain.AllTaxClasses)),
		BottledByClass: make(map[domain.TaxClass]*domain.BottledWinesLedger, len(domain.AllTaxClasses)),
		TaxableGallons: taxable,
	}

	var inFermenterGal float64
	for _, tc := range domain.AllTaxClasses {
		// Packaging aggregates are liters; the ledgers are gallon-denominated.
		bottledGal := volume.LitersToGallons(bottled[tc])

		bulkLedger := buildBulkLedger(openingBulk[tc], endingBulk[tc], bulkRemovals[tc], bottledGal)
		if err := bulkLedger.Validate(tc); err != nil {
			return nil, err
		}
		form.BulkByClass[tc] = bulkLedger
		inFermenterGal += bulkLedger.Line28OnHandInFermenters

		bottledLedger := buildBottledLedger(
			volume.LitersToGallons(openingBottled[tc]),
			volume.LitersToGallons(endingBottled[tc]),
			bottledGal,
			bottledRemovals[tc],
		)
		if err := bottledLedger.Validate(tc); err != nil {
			return nil, err
		}
		form.BottledByClass[tc] = bottledLedger
	}
	form.InFermenterGallons = inFermenterGal

	if form.Distillery, err = s.buildDistillery(ctx, organizationID, periodStart, periodEnd); err != nil {
		return nil, fmt.Errorf("failed to build distillery operations: %w", err)
	}
	if form.Materials, err = s.materialsRepo.SumMaterials(ctx, organizationID, periodStart, periodEnd); err != nil {
		return nil, fmt.Errorf("failed to sum materials: %w", err)
	}

	return form, nil
}

// buildDistillery reconciles the cider-at-DSP and brandy accounts over the
// period and a combined view of both.
func (s *ttbFormService) buildDistillery(ctx context.Context, organizationID string, periodStart, periodEnd time.Time) (domain.DistilleryOperations, error) {
	var ops domain.DistilleryOperations

	transfers, err := s.distilleryRepo.FindBrandyTransfers(ctx, organizationID, periodStart, periodEnd)
	if err != nil {
		return ops, err
	}
	ops.Transfers = transfers
	for _, t := range transfers {
		switch t.Kind {
		case domain.CiderSentToDSP:
			ops.CiderSentToDSPGallons += t.Gallons
		case domain.BrandyReceived:
			ops.BrandyReceivedGallons += t.Gallons
		case domain.BrandyUsedFortification:
			ops.BrandyUsedInFortification += t.Gallons
		}
	}

	ciderOpen, err := s.distilleryRepo.FindSpiritsBalance(ctx, organizationID, portsrepo.SpiritsAccountCiderAtDSP, periodStart)
	if err != nil {
		return ops, err
	}
	ciderEnd, err := s.distilleryRepo.FindSpiritsBalance(ctx, organizationID, portsrepo.SpiritsAccountCiderAtDSP, periodEnd)
	if err != nil {
		return ops, err
	}
	brandyOpen, err := s.distilleryRepo.FindSpiritsBalance(ctx, organizationID, portsrepo.SpiritsAccountBrandy, periodStart)
	if err != nil {
		return ops, err
	}
	brandyEnd, err := s.distilleryRepo.FindSpiritsBalance(ctx, organizationID, portsrepo.SpiritsAccountBrandy, periodEnd)
	if err != nil {
		return ops, err
	}

	// A cider-at-DSP discrepancy usually means distillation happened at the DSP
	// without a recorded balance update; the row surfaces it rather than guessing.
	ops.CiderRecon = domain.NewSpiritsReconRow("Cider at DSP",
		ciderOpen, ops.CiderSentToDSPGallons, 0, ciderEnd)
	ops.BrandyRecon = domain.NewSpiritsReconRow("Brandy on hand",
		brandyOpen, ops.BrandyReceivedGallons, ops.BrandyUsedInFortification, brandyEnd)
	ops.CombinedRecon = domain.NewSpiritsReconRow("Combined spirits",
		ciderOpen+brandyOpen,
		ops.CiderSentToDSPGallons+ops.BrandyReceivedGallons,
		ops.BrandyUsedInFortification,
		ciderEnd+brandyEnd)

	return ops, nil
}
