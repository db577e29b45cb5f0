package dto

import (
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// CreateLegacyBatchRequest records pre-system-tracking volume. Admin only.
type CreateLegacyBatchRequest struct {
	TaxClass      domain.TaxClass `json:"taxClass" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	VolumeLiters  float64         `json:"volumeLiters" binding:"required"`
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required"`
}

// UpdateLegacyBatchRequest edits a legacy batch; nil fields are left unchanged.
type UpdateLegacyBatchRequest struct {
	Description  *string  `json:"description,omitempty"`
	VolumeLiters *float64 `json:"volumeLiters,omitempty"`
}

// ListLegacyBatchesResponse lists the organization's legacy batches.
type ListLegacyBatchesResponse struct {
	LegacyBatches []domain.LegacyBatch `json:"legacyBatches"`
}
