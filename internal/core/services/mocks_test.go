package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
)

// --- Mock InventoryRepository ---

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindBatchSnapshotsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.BatchSnapshot, error) {
	args := m.Called(ctx, organizationID, asOf)
	var snapshots []domain.BatchSnapshot
	if args.Get(0) != nil {
		snapshots = args.Get(0).([]domain.BatchSnapshot)
	}
	return snapshots, args.Error(1)
}

func (m *MockInventoryRepository) FindPackagingRunsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.PackagingRun, error) {
	args := m.Called(ctx, organizationID, asOf)
	var runs []domain.PackagingRun
	if args.Get(0) != nil {
		runs = args.Get(0).([]domain.PackagingRun)
	}
	return runs, args.Error(1)
}

func (m *MockInventoryRepository) FindVessels(ctx context.Context, organizationID string) (map[string]domain.Vessel, error) {
	args := m.Called(ctx, organizationID)
	var vessels map[string]domain.Vessel
	if args.Get(0) != nil {
		vessels = args.Get(0).(map[string]domain.Vessel)
	}
	return vessels, args.Error(1)
}

// --- Mock ProductionRepository ---

type MockProductionRepository struct {
	mock.Mock
}

func (m *MockProductionRepository) FindPressRuns(ctx context.Context, organizationID string, from, to time.Time) ([]domain.PressRun, error) {
	args := m.Called(ctx, organizationID, from, to)
	var runs []domain.PressRun
	if args.Get(0) != nil {
		runs = args.Get(0).([]domain.PressRun)
	}
	return runs, args.Error(1)
}

func (m *MockProductionRepository) FindJuicePurchases(ctx context.Context, organizationID string, from, to time.Time) ([]domain.JuicePurchase, error) {
	args := m.Called(ctx, organizationID, from, to)
	var purchases []domain.JuicePurchase
	if args.Get(0) != nil {
		purchases = args.Get(0).([]domain.JuicePurchase)
	}
	return purchases, args.Error(1)
}

// --- Mock RemovalRepository ---

type MockRemovalRepository struct {
	mock.Mock
}

func (m *MockRemovalRepository) FindRemovals(ctx context.Context, organizationID string, from, to time.Time) ([]domain.Removal, error) {
	args := m.Called(ctx, organizationID, from, to)
	var removals []domain.Removal
	if args.Get(0) != nil {
		removals = args.Get(0).([]domain.Removal)
	}
	return removals, args.Error(1)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveSnapshot(ctx context.Context, snapshot domain.ReconciliationSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindLastSnapshot(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error) {
	args := m.Called(ctx, organizationID)
	var snapshot *domain.ReconciliationSnapshot
	if args.Get(0) != nil {
		snapshot = args.Get(0).(*domain.ReconciliationSnapshot)
	}
	return snapshot, args.Error(1)
}

func (m *MockReconciliationRepository) FindSnapshotByID(ctx context.Context, organizationID, reconciliationID string) (*domain.ReconciliationSnapshot, error) {
	args := m.Called(ctx, organizationID, reconciliationID)
	var snapshot *domain.ReconciliationSnapshot
	if args.Get(0) != nil {
		snapshot = args.Get(0).(*domain.ReconciliationSnapshot)
	}
	return snapshot, args.Error(1)
}

func (m *MockReconciliationRepository) ListSnapshots(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.ReconciliationSnapshot, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	var snapshots []domain.ReconciliationSnapshot
	if args.Get(0) != nil {
		snapshots = args.Get(0).([]domain.ReconciliationSnapshot)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return snapshots, token, args.Error(2)
}

// --- Mock OpeningBalanceRepository ---

type MockOpeningBalanceRepository struct {
	mock.Mock
}

func (m *MockOpeningBalanceRepository) FindOpeningBalances(ctx context.Context, organizationID string, asOf time.Time) ([]domain.OpeningBalance, error) {
	args := m.Called(ctx, organizationID, asOf)
	var balances []domain.OpeningBalance
	if args.Get(0) != nil {
		balances = args.Get(0).([]domain.OpeningBalance)
	}
	return balances, args.Error(1)
}

// --- Mock LegacyBatchRepository ---

type MockLegacyBatchRepository struct {
	mock.Mock
}

func (m *MockLegacyBatchRepository) SaveLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error {
	args := m.Called(ctx, lb)
	return args.Error(0)
}

func (m *MockLegacyBatchRepository) UpdateLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error {
	args := m.Called(ctx, lb)
	return args.Error(0)
}

func (m *MockLegacyBatchRepository) DeleteLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, organizationID, legacyBatchID, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockLegacyBatchRepository) FindLegacyBatchByID(ctx context.Context, organizationID, legacyBatchID string) (*domain.LegacyBatch, error) {
	args := m.Called(ctx, organizationID, legacyBatchID)
	var lb *domain.LegacyBatch
	if args.Get(0) != nil {
		lb = args.Get(0).(*domain.LegacyBatch)
	}
	return lb, args.Error(1)
}

func (m *MockLegacyBatchRepository) FindLegacyBatches(ctx context.Context, organizationID string, asOf time.Time) ([]domain.LegacyBatch, error) {
	args := m.Called(ctx, organizationID, asOf)
	var batches []domain.LegacyBatch
	if args.Get(0) != nil {
		batches = args.Get(0).([]domain.LegacyBatch)
	}
	return batches, args.Error(1)
}

// --- Mock DistilleryRepository ---

type MockDistilleryRepository struct {
	mock.Mock
}

func (m *MockDistilleryRepository) FindBrandyTransfers(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BrandyTransfer, error) {
	args := m.Called(ctx, organizationID, from, to)
	var transfers []domain.BrandyTransfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]domain.BrandyTransfer)
	}
	return transfers, args.Error(1)
}

func (m *MockDistilleryRepository) FindSpiritsBalance(ctx context.Context, organizationID string, account portsrepo.SpiritsAccount, asOf time.Time) (float64, error) {
	args := m.Called(ctx, organizationID, account, asOf)
	return args.Get(0).(float64), args.Error(1)
}

// --- Mock MaterialsRepository ---

type MockMaterialsRepository struct {
	mock.Mock
}

func (m *MockMaterialsRepository) SumMaterials(ctx context.Context, organizationID string, from, to time.Time) (domain.MaterialsUsage, error) {
	args := m.Called(ctx, organizationID, from, to)
	return args.Get(0).(domain.MaterialsUsage), args.Error(1)
}

// --- Mock RateRepository ---

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindRatesEffectiveOn(ctx context.Context, on time.Time) ([]domain.TaxRate, error) {
	args := m.Called(ctx, on)
	var rates []domain.TaxRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.TaxRate)
	}
	return rates, args.Error(1)
}

func (m *MockRateRepository) ListRates(ctx context.Context) ([]domain.TaxRate, error) {
	args := m.Called(ctx)
	var rates []domain.TaxRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.TaxRate)
	}
	return rates, args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, string, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.String(1), args.Error(2)
}

// --- Mock InventorySvcFacade ---

type MockInventorySvc struct {
	mock.Mock
}

func (m *MockInventorySvc) CurrentInventory(ctx context.Context, organizationID string, asOf time.Time, filter *domain.TaxClass) (*domain.InventoryBreakdown, error) {
	args := m.Called(ctx, organizationID, asOf, filter)
	var breakdown *domain.InventoryBreakdown
	if args.Get(0) != nil {
		breakdown = args.Get(0).(*domain.InventoryBreakdown)
	}
	return breakdown, args.Error(1)
}

func (m *MockInventorySvc) InventoryByYear(ctx context.Context, organizationID string, asOf time.Time) ([]domain.InventoryYearRow, error) {
	args := m.Called(ctx, organizationID, asOf)
	var rows []domain.InventoryYearRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.InventoryYearRow)
	}
	return rows, args.Error(1)
}

func (m *MockInventorySvc) BatchDetails(ctx context.Context, organizationID string, asOf time.Time) (map[domain.TaxClass][]domain.BatchDetail, error) {
	args := m.Called(ctx, organizationID, asOf)
	var details map[domain.TaxClass][]domain.BatchDetail
	if args.Get(0) != nil {
		details = args.Get(0).(map[domain.TaxClass][]domain.BatchDetail)
	}
	return details, args.Error(1)
}

func (m *MockInventorySvc) InFermenterLiters(ctx context.Context, organizationID string, asOf time.Time) (float64, error) {
	args := m.Called(ctx, organizationID, asOf)
	return args.Get(0).(float64), args.Error(1)
}

// --- Mock ProductionSvcFacade ---

type MockProductionSvc struct {
	mock.Mock
}

func (m *MockProductionSvc) ProductionTotals(ctx context.Context, organizationID string, startYear, endYear int) ([]domain.ProductionYearTotals, error) {
	args := m.Called(ctx, organizationID, startYear, endYear)
	var totals []domain.ProductionYearTotals
	if args.Get(0) != nil {
		totals = args.Get(0).([]domain.ProductionYearTotals)
	}
	return totals, args.Error(1)
}

// --- Mock UserSvcFacade ---

type MockUserSvc struct {
	mock.Mock
}

func (m *MockUserSvc) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, creatorUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserSvc) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserSvc) AuthorizeUserAction(ctx context.Context, userID, organizationID string, required domain.OrgRole) error {
	args := m.Called(ctx, userID, organizationID, required)
	return args.Error(0)
}

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}
