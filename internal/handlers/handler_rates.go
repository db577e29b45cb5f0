package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/middleware"
)

// rateHandler exposes the excise rate table for review.
type rateHandler struct {
	taxService portssvc.TaxSvcFacade
}

func newRateHandler(ts portssvc.TaxSvcFacade) *rateHandler {
	return &rateHandler{taxService: ts}
}

// registerRateRoutes registers the rate table routes (not organization-scoped;
// rates are statutory, not per-premises).
func registerRateRoutes(rg *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := newRateHandler(taxService)
	rg.GET("/tax-rates", h.listRates)
}

// listRates godoc
// @Summary List excise tax rates
// @Description Returns the rate table, newest effective date first, optionally filtered to the rates in effect on a date.
// @Tags tax-rates
// @Produce json
// @Param effectiveOn query string false "Filter to rates in effect on this date (YYYY-MM-DD)"
// @Success 200 {array} domain.TaxRate
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tax-rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	rates, err := h.taxService.ListRates(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list tax rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list tax rates"})
		return
	}

	if effectiveOnStr := c.Query("effectiveOn"); effectiveOnStr != "" {
		effectiveOn, err := time.Parse(time.DateOnly, effectiveOnStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid effectiveOn date format. Use YYYY-MM-DD"})
			return
		}
		filtered := make([]domain.TaxRate, 0, len(rates))
		for _, r := range rates {
			if r.InEffectOn(effectiveOn) {
				filtered = append(filtered, r)
			}
		}
		rates = filtered
	}

	if rates == nil {
		rates = []domain.TaxRate{}
	}
	c.JSON(http.StatusOK, rates)
}
