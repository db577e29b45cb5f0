package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	// auditYearSpan bounds the production audit when no opening balance date
	// anchors the range.
	auditYearSpan = 3
)

// reconciliationService compares TTB-reported opening balances against
// system-computed state. Every computation is a pure function of the as-of date
// and stored data; the only mutation is the explicit atomic snapshot save.
type reconciliationService struct {
	inventorySvc  portssvc.InventorySvcFacade
	productionSvc portssvc.ProductionSvcFacade
	userSvc       portssvc.UserSvcFacade
	reconRepo     portsrepo.ReconciliationRepository
	openingRepo   portsrepo.OpeningBalanceRepository
	removalRepo   portsrepo.RemovalRepository
	legacyRepo    portsrepo.LegacyBatchRepository
}

// NewReconciliationService creates the reconciliation engine.
func NewReconciliationService(
	inventorySvc portssvc.InventorySvcFacade,
	productionSvc portssvc.ProductionSvcFacade,
	userSvc portssvc.UserSvcFacade,
	reconRepo portsrepo.ReconciliationRepository,
	openingRepo portsrepo.OpeningBalanceRepository,
	removalRepo portsrepo.RemovalRepository,
	legacyRepo portsrepo.LegacyBatchRepository,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		inventorySvc:  inventorySvc,
		productionSvc: productionSvc,
		userSvc:       userSvc,
		reconRepo:     reconRepo,
		openingRepo:   openingRepo,
		removalRepo:   removalRepo,
		legacyRepo:    legacyRepo,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// openingReference resolves the TTB-side balances to reconcile against.
// When a period start is given and a prior saved snapshot precedes it, that
// snapshot's ending on-hand figures become the opening reference (the period
// chain: N's ending is N+1's beginning). Otherwise the manually entered
// opening balances from the last filed form are used.
func (s *reconciliationService) openingReference(ctx context.Context, organizationID string, asOf time.Time, periodStart *time.Time) (map[domain.TaxClass]float64, *time.Time, bool, error) {
	byClass := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, tc := range domain.AllTaxClasses {
		byClass[tc] = 0
	}

	if periodStart != nil {
		prev, err := s.reconRepo.FindLastSnapshot(ctx, organizationID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, false, err
		}
		if prev != nil && prev.ReconciliationDate.Before(*periodStart) && len(prev.Summary.EndingOnHandByClass) > 0 {
			for tc, gal := range prev.Summary.EndingOnHandByClass {
				byClass[tc] = gal
			}
			d := prev.ReconciliationDate
			return byClass, &d, true, nil
		}
	}

	balances, err := s.openingRepo.FindOpeningBalances(ctx, organizationID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return byClass, nil, false, nil
		}
		return nil, nil, false, err
	}

	var balanceDate *time.Time
	for _, ob := range balances {
		byClass[ob.TaxClass] += ob.Gallons
		if balanceDate == nil || ob.BalanceDate.After(*balanceDate) {
			d := ob.BalanceDate
			balanceDate = &d
		}
	}
	return byClass, balanceDate, balanceDate != nil, nil
}

// GetSummary implements portssvc.ReconciliationReaderSvc.
func (s *reconciliationService) GetSummary(ctx context.Context, organizationID string, asOf time.Time, periodStart *time.Time) (*domain.ReconciliationSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ttbByClass, openingDate, hasOpening, err := s.openingReference(ctx, organizationID, asOf, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve opening reference: %w", err)
	}

	inventory, err := s.inventorySvc.CurrentInventory(ctx, organizationID, asOf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	removalsFrom := time.Time{}
	if periodStart != nil {
		removalsFrom = *periodStart
	} else if openingDate != nil {
		removalsFrom = *openingDate
	}
	removals, err := s.removalRepo.FindRemovals(ctx, organizationID, removalsFrom, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load removals: %w", err)
	}
	removalLitersByClass := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, r := range removals {
		removalLitersByClass[r.TaxClass] += r.VolumeLiters
	}

	legacies, err := s.legacyRepo.FindLegacyBatches(ctx, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy batches: %w", err)
	}
	legacyLitersByClass := make(map[domain.TaxClass]float64, len(domain.AllTaxClasses))
	for _, lb := range legacies {
		legacyLitersByClass[lb.TaxClass] += lb.VolumeLiters
	}

	summary := &domain.ReconciliationSummary{
		ReconciliationDate:  asOf,
		HasOpeningBalances:  hasOpening,
		OpeningBalanceDate:  openingDate,
		TaxClasses:          domain.AllTaxClasses,
		Unclassified:        inventory.Unclassified,
		EndingOnHandByClass: make(map[domain.TaxClass]float64, len(domain.AllTaxClasses)),
	}

	// Per-class rows in fixed enum order; the residual definition lives in
	// domain.NewReconciliationRow so the algebra is tested in one place.
	for _, tc := range domain.AllTaxClasses {
		inv := volume.LitersToGallons(inventory.ByClass[tc].TotalLiters)
		row := domain.NewReconciliationRow(
			tc,
			ttbByClass[tc],
			inv,
			volume.LitersToGallons(removalLitersByClass[tc]),
			volume.LitersToGallons(legacyLitersByClass[tc]),
		)
		summary.Breakdown = append(summary.Breakdown, row)
		summary.EndingOnHandByClass[tc] = inv
	}

	var ttbTotal, invTotal, removalTotal, legacyTotal float64
	for _, row := range summary.Breakdown {
		ttbTotal += row.TTBGallons
		invTotal += row.InventoryGallons
		removalTotal += row.RemovalsGallons
		legacyTotal += row.LegacyGallons
	}
	summary.Totals = domain.NewReconciliationRow("", ttbTotal, invTotal, removalTotal, legacyTotal)

	if summary.InventoryByYear, err = s.inventorySvc.InventoryByYear(ctx, organizationID, asOf); err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory by year: %w", err)
	}
	if summary.BatchDetailsByClass, err = s.inventorySvc.BatchDetails(ctx, organizationID, asOf); err != nil {
		return nil, fmt.Errorf("failed to load batch details: %w", err)
	}

	startYear := asOf.Year() - auditYearSpan + 1
	if openingDate != nil && openingDate.Year() < startYear {
		startYear = openingDate.Year()
	}
	if summary.ProductionAudit, err = s.productionSvc.ProductionTotals(ctx, organizationID, startYear, asOf.Year()); err != nil {
		return nil, fmt.Errorf("failed to aggregate production audit: %w", err)
	}

	if !summary.Totals.IsReconciled {
		logger.Info("Reconciliation variance outside tolerance",
			slog.Float64("difference_gallons", summary.Totals.Difference),
			slog.String("organization_id", organizationID))
	}

	return summary, nil
}

// GetLastReconciliation implements portssvc.ReconciliationReaderSvc.
// A missing snapshot is an empty result, not an error: the UI must be able to
// distinguish "never reconciled" from a system failure.
func (s *reconciliationService) GetLastReconciliation(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error) {
	snapshot, err := s.reconRepo.FindLastSnapshot(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return snapshot, nil
}

// GetHistory implements portssvc.ReconciliationReaderSvc.
func (s *reconciliationService) GetHistory(ctx context.Context, organizationID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	snapshots, nextToken, err := s.reconRepo.ListSnapshots(ctx, organizationID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = []domain.ReconciliationSnapshot{}
	}
	return &dto.ListReconciliationsResponse{Reconciliations: snapshots, NextToken: nextToken}, nil
}

// SaveReconciliation implements portssvc.ReconciliationWriterSvc. The summary
// is recomputed server-side and committed as one immutable snapshot; a later
// correction produces a superseding snapshot, never a rewrite.
func (s *reconciliationService) SaveReconciliation(ctx context.Context, organizationID string, req dto.SaveReconciliationRequest, userID string) (*domain.ReconciliationSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	previousID := req.PreviousReconciliationID
	if previousID != nil {
		if _, err := s.reconRepo.FindSnapshotByID(ctx, organizationID, *previousID); err != nil {
			return nil, fmt.Errorf("previous reconciliation %s: %w", *previousID, err)
		}
	} else {
		// Default the chain link to the latest saved snapshot.
		last, err := s.reconRepo.FindLastSnapshot(ctx, organizationID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if last != nil {
			previousID = &last.ReconciliationID
		}
	}

	summary, err := s.GetSummary(ctx, organizationID, req.ReconciliationDate, req.PeriodStartDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshot := domain.ReconciliationSnapshot{
		ReconciliationID:         uuid.NewString(),
		OrganizationID:           organizationID,
		ReconciliationDate:       req.ReconciliationDate,
		Name:                     req.Name,
		Notes:                    req.Notes,
		PeriodStartDate:          req.PeriodStartDate,
		PeriodEndDate:            req.PeriodEndDate,
		PreviousReconciliationID: previousID,
		Summary:                  *summary,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save reconciliation snapshot: %w", err)
	}

	logger.Info("Reconciliation snapshot saved",
		slog.String("reconciliation_id", snapshot.ReconciliationID),
		slog.String("organization_id", organizationID),
		slog.Bool("reconciled", summary.Totals.IsReconciled))

	return &snapshot, nil
}
