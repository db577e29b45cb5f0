package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/core/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockInventorySvc  *MockInventorySvc
	mockProductionSvc *MockProductionSvc
	mockUserSvc       *MockUserSvc
	mockReconRepo     *MockReconciliationRepository
	mockOpeningRepo   *MockOpeningBalanceRepository
	mockRemovalRepo   *MockRemovalRepository
	mockLegacyRepo    *MockLegacyBatchRepository
	service           portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockInventorySvc = new(MockInventorySvc)
	suite.mockProductionSvc = new(MockProductionSvc)
	suite.mockUserSvc = new(MockUserSvc)
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockOpeningRepo = new(MockOpeningBalanceRepository)
	suite.mockRemovalRepo = new(MockRemovalRepository)
	suite.mockLegacyRepo = new(MockLegacyBatchRepository)
	suite.service = services.NewReconciliationService(
		suite.mockInventorySvc,
		suite.mockProductionSvc,
		suite.mockUserSvc,
		suite.mockReconRepo,
		suite.mockOpeningRepo,
		suite.mockRemovalRepo,
		suite.mockLegacyRepo,
	)
}

// emptyBreakdown returns an inventory breakdown with zero volume in every class.
func emptyBreakdown(asOf time.Time) *domain.InventoryBreakdown {
	b := &domain.InventoryBreakdown{
		AsOf:    asOf,
		ByClass: make(map[domain.TaxClass]domain.InventorySummary),
	}
	for _, tc := range domain.AllTaxClasses {
		b.ByClass[tc] = domain.InventorySummary{}
	}
	return b
}

// stubAggregates wires the secondary aggregations every summary computation needs.
func (suite *ReconciliationServiceTestSuite) stubAggregates(orgID string) {
	suite.mockInventorySvc.On("InventoryByYear", mock.Anything, orgID, mock.Anything).Return([]domain.InventoryYearRow{}, nil)
	suite.mockInventorySvc.On("BatchDetails", mock.Anything, orgID, mock.Anything).Return(map[domain.TaxClass][]domain.BatchDetail{}, nil)
	suite.mockProductionSvc.On("ProductionTotals", mock.Anything, orgID, mock.Anything, mock.Anything).Return([]domain.ProductionYearTotals{}, nil)
}

// The classic variance scenario: the government shows 1000 gallons of hard
// cider; the system accounts for 850 on hand, 100 removed and 45 of legacy
// volume. The missing 5 gallons must surface as an unreconciled positive
// difference pointing at a legacy batch entry.
func (suite *ReconciliationServiceTestSuite) TestGetSummary_VarianceOutsideTolerance() {
	ctx := context.Background()
	orgID := "org-1"
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	openingDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.mockOpeningRepo.On("FindOpeningBalances", ctx, orgID, asOf).Return([]domain.OpeningBalance{
		{OrganizationID: orgID, BalanceDate: openingDate, TaxClass: domain.TaxClassHardCider, Gallons: 1000},
	}, nil).Once()

	inv := emptyBreakdown(asOf)
	inv.ByClass[domain.TaxClassHardCider] = domain.InventorySummary{TotalLiters: volume.GallonsToLiters(850)}
	suite.mockInventorySvc.On("CurrentInventory", ctx, orgID, asOf, (*domain.TaxClass)(nil)).Return(inv, nil).Once()

	suite.mockRemovalRepo.On("FindRemovals", ctx, orgID, openingDate, asOf).Return([]domain.Removal{
		{TaxClass: domain.TaxClassHardCider, Kind: domain.RemovalTaxpaid, VolumeLiters: volume.GallonsToLiters(100)},
	}, nil).Once()
	suite.mockLegacyRepo.On("FindLegacyBatches", ctx, orgID, asOf).Return([]domain.LegacyBatch{
		{TaxClass: domain.TaxClassHardCider, VolumeLiters: volume.GallonsToLiters(45)},
	}, nil).Once()
	suite.stubAggregates(orgID)

	summary, err := suite.service.GetSummary(ctx, orgID, asOf, nil)

	suite.Require().NoError(err)
	suite.True(summary.HasOpeningBalances)
	suite.Require().Len(summary.Breakdown, len(domain.AllTaxClasses))

	cider := summary.Breakdown[0]
	suite.Equal(domain.TaxClassHardCider, cider.TaxClass)
	suite.InDelta(5.0, cider.Difference, 1e-9)
	suite.False(cider.IsReconciled)
	suite.Equal(domain.GuidancePositiveVariance, cider.Guidance)

	suite.InDelta(5.0, summary.Totals.Difference, 1e-9)
	suite.False(summary.Totals.IsReconciled)
	suite.mockOpeningRepo.AssertExpectations(suite.T())
}

// Same scenario with the 45-gallon legacy batch corrected to 50: the residual
// collapses to zero and the class reconciles.
func (suite *ReconciliationServiceTestSuite) TestGetSummary_ReconciledAfterLegacyCorrection() {
	ctx := context.Background()
	orgID := "org-1"
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	openingDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.mockOpeningRepo.On("FindOpeningBalances", ctx, orgID, asOf).Return([]domain.OpeningBalance{
		{OrganizationID: orgID, BalanceDate: openingDate, TaxClass: domain.TaxClassHardCider, Gallons: 1000},
	}, nil).Once()

	inv := emptyBreakdown(asOf)
	inv.ByClass[domain.TaxClassHardCider] = domain.InventorySummary{TotalLiters: volume.GallonsToLiters(850)}
	suite.mockInventorySvc.On("CurrentInventory", ctx, orgID, asOf, (*domain.TaxClass)(nil)).Return(inv, nil).Once()

	suite.mockRemovalRepo.On("FindRemovals", ctx, orgID, openingDate, asOf).Return([]domain.Removal{
		{TaxClass: domain.TaxClassHardCider, Kind: domain.RemovalTaxpaid, VolumeLiters: volume.GallonsToLiters(100)},
	}, nil).Once()
	suite.mockLegacyRepo.On("FindLegacyBatches", ctx, orgID, asOf).Return([]domain.LegacyBatch{
		{TaxClass: domain.TaxClassHardCider, VolumeLiters: volume.GallonsToLiters(50)},
	}, nil).Once()
	suite.stubAggregates(orgID)

	summary, err := suite.service.GetSummary(ctx, orgID, asOf, nil)

	suite.Require().NoError(err)
	cider := summary.Breakdown[0]
	suite.InDelta(0.0, cider.Difference, 1e-9)
	suite.True(cider.IsReconciled)
	suite.Empty(cider.Guidance)
	suite.True(summary.Totals.IsReconciled)
}

// With no opening balances entered, every class reconciles against zero and the
// summary flags the absence instead of failing.
func (suite *ReconciliationServiceTestSuite) TestGetSummary_NoOpeningBalances() {
	ctx := context.Background()
	orgID := "org-empty"
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockOpeningRepo.On("FindOpeningBalances", ctx, orgID, asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInventorySvc.On("CurrentInventory", ctx, orgID, asOf, (*domain.TaxClass)(nil)).Return(emptyBreakdown(asOf), nil).Once()
	suite.mockRemovalRepo.On("FindRemovals", ctx, orgID, time.Time{}, asOf).Return([]domain.Removal{}, nil).Once()
	suite.mockLegacyRepo.On("FindLegacyBatches", ctx, orgID, asOf).Return([]domain.LegacyBatch{}, nil).Once()
	suite.stubAggregates(orgID)

	summary, err := suite.service.GetSummary(ctx, orgID, asOf, nil)

	suite.Require().NoError(err)
	suite.False(summary.HasOpeningBalances)
	suite.Nil(summary.OpeningBalanceDate)
	suite.True(summary.Totals.IsReconciled)
}

// When a period start is given and a saved snapshot precedes it, its ending
// on-hand figures become the opening reference: period N's ending is period
// N+1's beginning. The manual opening balances must not be consulted.
func (suite *ReconciliationServiceTestSuite) TestGetSummary_PeriodChainsFromPreviousSnapshot() {
	ctx := context.Background()
	orgID := "org-1"
	periodStart := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)
	prevDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	prev := &domain.ReconciliationSnapshot{
		ReconciliationID:   "recon-prev",
		OrganizationID:     orgID,
		ReconciliationDate: prevDate,
		Summary: domain.ReconciliationSummary{
			EndingOnHandByClass: map[domain.TaxClass]float64{domain.TaxClassHardCider: 900},
		},
	}
	suite.mockReconRepo.On("FindLastSnapshot", ctx, orgID).Return(prev, nil).Once()

	inv := emptyBreakdown(asOf)
	inv.ByClass[domain.TaxClassHardCider] = domain.InventorySummary{TotalLiters: volume.GallonsToLiters(880)}
	suite.mockInventorySvc.On("CurrentInventory", ctx, orgID, asOf, (*domain.TaxClass)(nil)).Return(inv, nil).Once()

	// Removals are scoped to the period, not all history.
	suite.mockRemovalRepo.On("FindRemovals", ctx, orgID, periodStart, asOf).Return([]domain.Removal{
		{TaxClass: domain.TaxClassHardCider, Kind: domain.RemovalTaxpaid, VolumeLiters: volume.GallonsToLiters(20)},
	}, nil).Once()
	suite.mockLegacyRepo.On("FindLegacyBatches", ctx, orgID, asOf).Return([]domain.LegacyBatch{}, nil).Once()
	suite.stubAggregates(orgID)

	summary, err := suite.service.GetSummary(ctx, orgID, asOf, &periodStart)

	suite.Require().NoError(err)
	suite.True(summary.HasOpeningBalances)
	suite.Require().NotNil(summary.OpeningBalanceDate)
	suite.True(summary.OpeningBalanceDate.Equal(prevDate))

	cider := summary.Breakdown[0]
	suite.InDelta(900.0, cider.TTBGallons, 1e-9)
	suite.InDelta(0.0, cider.Difference, 1e-9)
	suite.True(cider.IsReconciled)

	// No FindOpeningBalances call: the chain replaced the manual reference.
	suite.mockOpeningRepo.AssertNotCalled(suite.T(), "FindOpeningBalances", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestGetLastReconciliation_NeverReconciledIsNotAnError() {
	ctx := context.Background()
	suite.mockReconRepo.On("FindLastSnapshot", ctx, "org-1").Return(nil, apperrors.ErrNotFound).Once()

	snapshot, err := suite.service.GetLastReconciliation(ctx, "org-1")

	suite.Require().NoError(err)
	suite.Nil(snapshot)
}

func (suite *ReconciliationServiceTestSuite) TestGetHistory_ClampsLimit() {
	ctx := context.Background()

	suite.mockReconRepo.On("ListSnapshots", ctx, "org-1", 20, (*string)(nil)).Return([]domain.ReconciliationSnapshot{}, nil, nil).Once()
	_, err := suite.service.GetHistory(ctx, "org-1", dto.ListReconciliationsParams{})
	suite.Require().NoError(err)

	suite.mockReconRepo.On("ListSnapshots", ctx, "org-1", 100, (*string)(nil)).Return([]domain.ReconciliationSnapshot{}, nil, nil).Once()
	_, err = suite.service.GetHistory(ctx, "org-1", dto.ListReconciliationsParams{Limit: 500})
	suite.Require().NoError(err)

	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestSaveReconciliation_RequiresAdmin() {
	ctx := context.Background()
	req := dto.SaveReconciliationRequest{ReconciliationDate: time.Now()}

	suite.mockUserSvc.On("AuthorizeUserAction", ctx, "user-1", "org-1", domain.RoleAdmin).Return(apperrors.ErrForbidden).Once()

	snapshot, err := suite.service.SaveReconciliation(ctx, "org-1", req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(snapshot)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

// Saving recomputes the summary server-side and links the chain to the latest
// saved snapshot when the request names no predecessor.
func (suite *ReconciliationServiceTestSuite) TestSaveReconciliation_ChainsToLastSnapshot() {
	ctx := context.Background()
	orgID := "org-1"
	userID := "user-admin"
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	req := dto.SaveReconciliationRequest{ReconciliationDate: asOf, Name: "June close"}

	suite.mockUserSvc.On("AuthorizeUserAction", ctx, userID, orgID, domain.RoleAdmin).Return(nil).Once()

	prev := &domain.ReconciliationSnapshot{ReconciliationID: "recon-prev", OrganizationID: orgID, ReconciliationDate: asOf.AddDate(0, -1, 0)}
	suite.mockReconRepo.On("FindLastSnapshot", ctx, orgID).Return(prev, nil).Once()

	suite.mockOpeningRepo.On("FindOpeningBalances", ctx, orgID, asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInventorySvc.On("CurrentInventory", ctx, orgID, asOf, (*domain.TaxClass)(nil)).Return(emptyBreakdown(asOf), nil).Once()
	suite.mockRemovalRepo.On("FindRemovals", ctx, orgID, time.Time{}, asOf).Return([]domain.Removal{}, nil).Once()
	suite.mockLegacyRepo.On("FindLegacyBatches", ctx, orgID, asOf).Return([]domain.LegacyBatch{}, nil).Once()
	suite.stubAggregates(orgID)

	suite.mockReconRepo.On("SaveSnapshot", ctx, mock.MatchedBy(func(s domain.ReconciliationSnapshot) bool {
		return s.OrganizationID == orgID &&
			s.Name == "June close" &&
			s.PreviousReconciliationID != nil && *s.PreviousReconciliationID == "recon-prev" &&
			s.CreatedBy == userID
	})).Return(nil).Once()

	snapshot, err := suite.service.SaveReconciliation(ctx, orgID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.NotEmpty(snapshot.ReconciliationID)
	suite.Require().NotNil(snapshot.PreviousReconciliationID)
	suite.Equal("recon-prev", *snapshot.PreviousReconciliationID)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestSaveReconciliation_UnknownPreviousID() {
	ctx := context.Background()
	orgID := "org-1"
	userID := "user-admin"
	previousID := "recon-missing"
	req := dto.SaveReconciliationRequest{
		ReconciliationDate:       time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		PreviousReconciliationID: &previousID,
	}

	suite.mockUserSvc.On("AuthorizeUserAction", ctx, userID, orgID, domain.RoleAdmin).Return(nil).Once()
	suite.mockReconRepo.On("FindSnapshotByID", ctx, orgID, previousID).Return(nil, apperrors.ErrNotFound).Once()

	snapshot, err := suite.service.SaveReconciliation(ctx, orgID, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(snapshot)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
