package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
)

// legacyBatchHandler handles HTTP requests for legacy batches.
type legacyBatchHandler struct {
	legacyBatchService portssvc.LegacyBatchSvcFacade
}

func newLegacyBatchHandler(ls portssvc.LegacyBatchSvcFacade) *legacyBatchHandler {
	return &legacyBatchHandler{legacyBatchService: ls}
}

// registerLegacyBatchRoutes registers legacy batch CRUD, nested under an
// organization.
func registerLegacyBatchRoutes(rg *gin.RouterGroup, legacyBatchService portssvc.LegacyBatchSvcFacade) {
	h := newLegacyBatchHandler(legacyBatchService)

	batches := rg.Group("/legacy-batches")
	{
		batches.POST("", h.create)
		batches.GET("", h.list)
		batches.PUT("/:legacy_batch_id", h.update)
		batches.DELETE("/:legacy_batch_id", h.delete)
	}
}

func (h *legacyBatchHandler) writeServiceError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Legacy batch writes require the admin role"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Legacy batch not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Failed to "+action+" legacy batch", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action + " legacy batch"})
	}
}

// create godoc
// @Summary Create a legacy batch
// @Description Records pre-tracking inventory volume. Admin only.
// @Tags legacy-batches
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param legacyBatch body dto.CreateLegacyBatchRequest true "Legacy batch"
// @Success 201 {object} domain.LegacyBatch
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/legacy-batches [post]
func (h *legacyBatchHandler) create(c *gin.Context) {
	organizationID := c.Param("organization_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateLegacyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	lb, err := h.legacyBatchService.CreateLegacyBatch(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		h.writeServiceError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, lb)
}

// list godoc
// @Summary List legacy batches
// @Tags legacy-batches
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {object} dto.ListLegacyBatchesResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/legacy-batches [get]
func (h *legacyBatchHandler) list(c *gin.Context) {
	organizationID := c.Param("organization_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	batches, err := h.legacyBatchService.ListLegacyBatches(c.Request.Context(), organizationID, userID)
	if err != nil {
		h.writeServiceError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, dto.ListLegacyBatchesResponse{LegacyBatches: batches})
}

// update godoc
// @Summary Update a legacy batch
// @Description Edits description or volume. Admin only.
// @Tags legacy-batches
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param legacy_batch_id path string true "Legacy batch ID"
// @Param legacyBatch body dto.UpdateLegacyBatchRequest true "Fields to update"
// @Success 200 {object} domain.LegacyBatch
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/legacy-batches/{legacy_batch_id} [put]
func (h *legacyBatchHandler) update(c *gin.Context) {
	organizationID := c.Param("organization_id")
	legacyBatchID := c.Param("legacy_batch_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateLegacyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	lb, err := h.legacyBatchService.UpdateLegacyBatch(c.Request.Context(), organizationID, legacyBatchID, req, userID)
	if err != nil {
		h.writeServiceError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, lb)
}

// delete godoc
// @Summary Delete a legacy batch
// @Description Soft-deletes the record. Admin only.
// @Tags legacy-batches
// @Param organization_id path string true "Organization ID"
// @Param legacy_batch_id path string true "Legacy batch ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/legacy-batches/{legacy_batch_id} [delete]
func (h *legacyBatchHandler) delete(c *gin.Context) {
	organizationID := c.Param("organization_id")
	legacyBatchID := c.Param("legacy_batch_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.legacyBatchService.DeleteLegacyBatch(c.Request.Context(), organizationID, legacyBatchID, userID); err != nil {
		h.writeServiceError(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}
