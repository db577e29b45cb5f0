package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/handlers"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) GetSummary(ctx context.Context, organizationID string, asOf time.Time, periodStart *time.Time) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx, organizationID, asOf, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}

func (m *MockReconciliationService) GetLastReconciliation(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSnapshot), args.Error(1)
}

func (m *MockReconciliationService) GetHistory(ctx context.Context, organizationID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error) {
	args := m.Called(ctx, organizationID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReconciliationsResponse), args.Error(1)
}

func (m *MockReconciliationService) SaveReconciliation(ctx context.Context, organizationID string, req dto.SaveReconciliationRequest, userID string) (*domain.ReconciliationSnapshot, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSnapshot), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

// --- Test Suite ---
type ReconciliationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReconciliationService
	jwtSecret   string
}

func (suite *ReconciliationHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cpa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReconciliationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockReconciliationService)

	org := suite.router.Group("/api/v1/organizations/:organization_id")
	handlers.RegisterReconciliationRoutes(org, suite.mockService)
}

func (suite *ReconciliationHandlerTestSuite) TestGetSummary_Success() {
	orgID := uuid.NewString()
	userID := uuid.NewString()
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	summary := &domain.ReconciliationSummary{
		ReconciliationDate: asOf,
		HasOpeningBalances: true,
		TaxClasses:         domain.AllTaxClasses,
		Totals:             domain.NewReconciliationRow("", 1000, 850.04, 100, 45),
	}
	for _, tc := range domain.AllTaxClasses {
		summary.Breakdown = append(summary.Breakdown, domain.NewReconciliationRow(tc, 0, 0, 0, 0))
	}

	suite.mockService.On("GetSummary",
		mock.AnythingOfType("*context.valueCtx"),
		orgID,
		asOf,
		(*time.Time)(nil),
	).Return(summary, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation/summary?asOfDate=2024-06-30", orgID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.ReconciliationSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.HasOpeningBalances)
	suite.Len(body.Breakdown, len(domain.AllTaxClasses))
	// Gallon figures come back rounded to one decimal.
	suite.Equal(850.0, body.Totals.InventoryGallons)
	suite.Equal(domain.GuidancePositiveVariance, body.Totals.Guidance)

	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestGetSummary_InvalidDate() {
	orgID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation/summary?asOfDate=30-06-2024", orgID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GetSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationHandlerTestSuite) TestGetSummary_RequiresToken() {
	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation/summary", uuid.NewString())
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestSave_ForbiddenForMembers() {
	orgID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockService.On("SaveReconciliation",
		mock.AnythingOfType("*context.valueCtx"),
		orgID,
		mock.AnythingOfType("dto.SaveReconciliationRequest"),
		userID,
	).Return(nil, apperrors.ErrForbidden).Once()

	payload, _ := json.Marshal(dto.SaveReconciliationRequest{
		ReconciliationDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation", orgID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestSave_Success() {
	orgID := uuid.NewString()
	userID := uuid.NewString()
	reconID := uuid.NewString()

	snapshot := &domain.ReconciliationSnapshot{
		ReconciliationID: reconID,
		OrganizationID:   orgID,
	}
	suite.mockService.On("SaveReconciliation",
		mock.AnythingOfType("*context.valueCtx"),
		orgID,
		mock.MatchedBy(func(r dto.SaveReconciliationRequest) bool {
			return r.Name == "June close"
		}),
		userID,
	).Return(snapshot, nil).Once()

	payload, _ := json.Marshal(dto.SaveReconciliationRequest{
		ReconciliationDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Name:               "June close",
	})
	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation", orgID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.SaveReconciliationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(reconID, body.ReconciliationID)
}

func (suite *ReconciliationHandlerTestSuite) TestGetHistory_Success() {
	orgID := uuid.NewString()

	resp := &dto.ListReconciliationsResponse{
		Reconciliations: []domain.ReconciliationSnapshot{
			{ReconciliationID: uuid.NewString(), OrganizationID: orgID},
		},
	}
	suite.mockService.On("GetHistory",
		mock.AnythingOfType("*context.valueCtx"),
		orgID,
		mock.MatchedBy(func(p dto.ListReconciliationsParams) bool {
			return p.Limit == 10
		}),
	).Return(resp, nil).Once()

	url := fmt.Sprintf("/api/v1/organizations/%s/reconciliation/history?limit=10", orgID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListReconciliationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Reconciliations, 1)
	suite.mockService.AssertExpectations(suite.T())
}

func TestReconciliationHandler(t *testing.T) {
	suite.Run(t, new(ReconciliationHandlerTestSuite))
}
