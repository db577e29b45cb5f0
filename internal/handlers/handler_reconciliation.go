package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

// reconciliationHandler handles HTTP requests for the reconciliation engine.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// RegisterReconciliationRoutes registers reconciliation routes, nested under a
// specific organization.
func RegisterReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recon := rg.Group("/reconciliation")
	{
		recon.GET("/summary", h.getSummary)
		recon.GET("/last", h.getLast)
		recon.GET("/history", h.getHistory)
		recon.POST("", h.save)
	}
}

// toRowView applies presentation rounding to one reconciliation row.
func toRowView(row domain.ReconciliationRow) dto.ReconciliationRowView {
	view := dto.ReconciliationRowView{
		TaxClass:         row.TaxClass,
		TTBGallons:       volume.RoundGallons(row.TTBGallons),
		InventoryGallons: volume.RoundGallons(row.InventoryGallons),
		RemovalsGallons:  volume.RoundGallons(row.RemovalsGallons),
		LegacyGallons:    volume.RoundGallons(row.LegacyGallons),
		Difference:       volume.RoundGallons(row.Difference),
		IsReconciled:     row.IsReconciled,
		Guidance:         row.Guidance,
	}
	if row.TaxClass != "" {
		view.TaxClassLabel = row.TaxClass.DisplayName()
	}
	return view
}

func toSummaryResponse(s *domain.ReconciliationSummary) dto.ReconciliationSummaryResponse {
	resp := dto.ReconciliationSummaryResponse{
		ReconciliationDate:  s.ReconciliationDate,
		HasOpeningBalances:  s.HasOpeningBalances,
		OpeningBalanceDate:  s.OpeningBalanceDate,
		Totals:              toRowView(s.Totals),
		InventoryByYear:     s.InventoryByYear,
		ProductionAudit:     s.ProductionAudit,
		TaxClasses:          s.TaxClasses,
		BatchDetailsByClass: s.BatchDetailsByClass,
		Unclassified:        s.Unclassified,
	}
	for _, row := range s.Breakdown {
		resp.Breakdown = append(resp.Breakdown, toRowView(row))
	}
	return resp
}

// getSummary godoc
// @Summary Compute reconciliation summary
// @Description Computes the on-demand reconciliation of TTB balances against system state as of a date.
// @Tags reconciliation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param asOfDate query string false "Reconciliation date (YYYY-MM-DD)" default(current date)
// @Param periodStartDate query string false "Period start date (YYYY-MM-DD); enables period chaining"
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/reconciliation/summary [get]
func (h *reconciliationHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	asOfStr := c.DefaultQuery("asOfDate", time.Now().Format(time.DateOnly))
	asOf, err := time.Parse(time.DateOnly, asOfStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOfDate date format. Use YYYY-MM-DD"})
		return
	}

	var periodStart *time.Time
	if psStr := c.Query("periodStartDate"); psStr != "" {
		ps, err := time.Parse(time.DateOnly, psStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid periodStartDate date format. Use YYYY-MM-DD"})
			return
		}
		periodStart = &ps
	}

	summary, err := h.reconciliationService.GetSummary(c.Request.Context(), organizationID, asOf, periodStart)
	if err != nil {
		logger.Error("Failed to compute reconciliation summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute reconciliation summary"})
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// getLast godoc
// @Summary Get last saved reconciliation
// @Description Returns the most recent saved reconciliation snapshot, or null when the organization has never reconciled.
// @Tags reconciliation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {object} dto.LastReconciliationResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/reconciliation/last [get]
func (h *reconciliationHandler) getLast(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	snapshot, err := h.reconciliationService.GetLastReconciliation(c.Request.Context(), organizationID)
	if err != nil {
		logger.Error("Failed to load last reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load last reconciliation"})
		return
	}

	c.JSON(http.StatusOK, dto.LastReconciliationResponse{Reconciliation: snapshot})
}

// getHistory godoc
// @Summary List reconciliation history
// @Description Pages through saved reconciliation snapshots, newest first.
// @Tags reconciliation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Keyset pagination token"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/reconciliation/history [get]
func (h *reconciliationHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var params dto.ListReconciliationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination parameters"})
		return
	}

	resp, err := h.reconciliationService.GetHistory(c.Request.Context(), organizationID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list reconciliation history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list reconciliation history"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// save godoc
// @Summary Save a reconciliation snapshot
// @Description Recomputes the summary server-side and persists it as an immutable snapshot. Admin only.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param reconciliation body dto.SaveReconciliationRequest true "Snapshot parameters"
// @Success 201 {object} dto.SaveReconciliationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/reconciliation [post]
func (h *reconciliationHandler) save(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SaveReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	snapshot, err := h.reconciliationService.SaveReconciliation(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Saving reconciliations requires the admin role"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Referenced reconciliation not found"})
		default:
			logger.Error("Failed to save reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save reconciliation"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.SaveReconciliationResponse{ReconciliationID: snapshot.ReconciliationID})
}
