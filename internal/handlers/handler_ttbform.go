package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/export/xlsx"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
)

// ttbFormHandler handles HTTP requests for the 5120.17 form and tax computation.
type ttbFormHandler struct {
	formService portssvc.TTBFormSvcFacade
	taxService  portssvc.TaxSvcFacade
}

func newTTBFormHandler(fs portssvc.TTBFormSvcFacade, ts portssvc.TaxSvcFacade) *ttbFormHandler {
	return &ttbFormHandler{formService: fs, taxService: ts}
}

// registerTTBFormRoutes registers form routes, nested under an organization.
func registerTTBFormRoutes(rg *gin.RouterGroup, formService portssvc.TTBFormSvcFacade, taxService portssvc.TaxSvcFacade) {
	h := newTTBFormHandler(formService, taxService)

	ttb := rg.Group("/ttb")
	{
		ttb.GET("/form512017", h.getForm)
		ttb.GET("/form512017/export", h.exportForm)
		ttb.GET("/tax", h.getTax)
	}
}

func (h *ttbFormHandler) bindPeriod(c *gin.Context) (time.Time, time.Time, bool) {
	var query dto.TTBFormQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "periodStart and periodEnd are required (YYYY-MM-DD)"})
		return time.Time{}, time.Time{}, false
	}
	periodStart, err := time.Parse(time.DateOnly, query.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid periodStart date format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	periodEnd, err := time.Parse(time.DateOnly, query.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid periodEnd date format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return periodStart, periodEnd, true
}

func (h *ttbFormHandler) buildForm(c *gin.Context) (*domain.TTBForm512017Data, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	periodStart, periodEnd, ok := h.bindPeriod(c)
	if !ok {
		return nil, false
	}

	form, err := h.formService.BuildForm(c.Request.Context(), organizationID, periodStart, periodEnd)
	if err != nil {
		var imbalance *apperrors.LedgerImbalanceError
		if errors.As(err, &imbalance) {
			logger.Error("Form ledger failed to balance", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return nil, false
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return nil, false
		}
		logger.Error("Failed to build form", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build form"})
		return nil, false
	}
	return form, true
}

// getForm godoc
// @Summary Compute the Report of Wine Premises Operations
// @Description Builds the full TTB F 5120.17 data for the period, including the derived effervescent grouping.
// @Tags ttb
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param periodStart query string true "Period start date (YYYY-MM-DD)"
// @Param periodEnd query string true "Period end date (YYYY-MM-DD)"
// @Success 200 {object} dto.TTBFormResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A ledger failed to balance"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/ttb/form512017 [get]
func (h *ttbFormHandler) getForm(c *gin.Context) {
	form, ok := h.buildForm(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.TTBFormResponse{Form: form, EffervescentBulk: form.EffervescentBulk()})
}

// exportForm godoc
// @Summary Export the form as a spreadsheet
// @Description Renders the computed 5120.17 data as an XLSX workbook. The export renders stored figures; it never recomputes.
// @Tags ttb
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param organization_id path string true "Organization ID"
// @Param periodStart query string true "Period start date (YYYY-MM-DD)"
// @Param periodEnd query string true "Period end date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/ttb/form512017/export [get]
func (h *ttbFormHandler) exportForm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	form, ok := h.buildForm(c)
	if !ok {
		return
	}

	file, err := xlsx.RenderForm512017(form)
	if err != nil {
		logger.Error("Failed to render form export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render form export"})
		return
	}

	filename := fmt.Sprintf("ttb-5120-17-%s.xlsx", form.PeriodEnd.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		logger.Error("Failed to write form export", slog.String("error", err.Error()))
	}
}

func toTaxRowView(row domain.TaxComputationRow) dto.TaxRowView {
	view := dto.TaxRowView{
		TaxClass:            row.TaxClass,
		TaxableGallons:      row.TaxableGallons.InexactFloat64(),
		TaxRate:             row.TaxRate,
		GrossTax:            row.GrossTax.Round(2),
		CreditGallons:       row.CreditGallons.InexactFloat64(),
		SmallProducerCredit: row.SmallProducerCredit.Round(2),
		NetTax:              row.NetTax.Round(2),
	}
	if row.TaxClass != "" {
		view.TaxClassLabel = row.TaxClass.DisplayName()
	}
	return view
}

// getTax godoc
// @Summary Compute excise tax for the period
// @Description Applies the rate table in effect at period end to the period's taxpaid removals, including the small producer credit.
// @Tags ttb
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param periodStart query string true "Period start date (YYYY-MM-DD)"
// @Param periodEnd query string true "Period end date (YYYY-MM-DD)"
// @Success 200 {object} dto.TaxComputationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/ttb/tax [get]
func (h *ttbFormHandler) getTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	form, ok := h.buildForm(c)
	if !ok {
		return
	}

	inputs := make(map[domain.TaxClass]portssvc.TaxInput, len(form.TaxableGallons))
	for tc, gallons := range form.TaxableGallons {
		inputs[tc] = portssvc.TaxInput{
			TaxableGallons:        gallons,
			CreditEligibleGallons: gallons, // statutory cap applied by the rate table
		}
	}

	rows, total, err := h.taxService.ComputeTax(c.Request.Context(), inputs, form.PeriodEnd)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to compute tax", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute tax"})
		return
	}

	resp := dto.TaxComputationResponse{Total: toTaxRowView(total)}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, toTaxRowView(row))
	}
	c.JSON(http.StatusOK, resp)
}
