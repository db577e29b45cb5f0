package services

import (
	"context"
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
)

// legacyBatchService manages manually entered pre-tracking inventory. All
// writes are admin-only: a legacy batch changes reconciliation results directly,
// with no underlying source record to audit against.
type legacyBatchService struct {
	legacyRepo portsrepo.LegacyBatchRepository
	userSvc    portssvc.UserSvcFacade
}

// NewLegacyBatchService creates the legacy batch service.
func NewLegacyBatchService(legacyRepo portsrepo.LegacyBatchRepository, userSvc portssvc.UserSvcFacade) portssvc.LegacyBatchSvcFacade {
	return &legacyBatchService{legacyRepo: legacyRepo, userSvc: userSvc}
}

var _ portssvc.LegacyBatchSvcFacade = (*legacyBatchService)(nil)

// CreateLegacyBatch implements portssvc.LegacyBatchSvcFacade.
func (s *legacyBatchService) CreateLegacyBatch(ctx context.Context, organizationID string, req dto.CreateLegacyBatchRequest, userID string) (*domain.LegacyBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := domain.ParseTaxClass(string(req.TaxClass)); err != nil {
		return nil, err
	}
	if req.VolumeLiters < 0 {
		return nil, fmt.Errorf("legacy batch volume must not be negative: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	lb := domain.LegacyBatch{
		LegacyBatchID:  uuid.NewString(),
		OrganizationID: organizationID,
		TaxClass:       req.TaxClass,
		Description:    req.Description,
		VolumeLiters:   req.VolumeLiters,
		EffectiveDate:  req.EffectiveDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.legacyRepo.SaveLegacyBatch(ctx, lb); err != nil {
		return nil, err
	}

	logger.Info("Legacy batch created",
		slog.String("legacy_batch_id", lb.LegacyBatchID),
		slog.String("tax_class", string(lb.TaxClass)),
		slog.Float64("volume_liters", lb.VolumeLiters))
	return &lb, nil
}

// UpdateLegacyBatch implements portssvc.LegacyBatchSvcFacade.
func (s *legacyBatchService) UpdateLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, req dto.UpdateLegacyBatchRequest, userID string) (*domain.LegacyBatch, error) {
	if err := s.userSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	lb, err := s.legacyRepo.FindLegacyBatchByID(ctx, organizationID, legacyBatchID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		lb.Description = *req.Description
	}
	if req.VolumeLiters != nil {
		if *req.VolumeLiters < 0 {
			return nil, fmt.Errorf("legacy batch volume must not be negative: %w", apperrors.ErrValidation)
		}
		lb.VolumeLiters = *req.VolumeLiters
	}
	lb.LastUpdatedAt = time.Now()
	lb.LastUpdatedBy = userID

	if err := s.legacyRepo.UpdateLegacyBatch(ctx, *lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// DeleteLegacyBatch implements portssvc.LegacyBatchSvcFacade.
func (s *legacyBatchService) DeleteLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, userID string) error {
	if err := s.userSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.legacyRepo.DeleteLegacyBatch(ctx, organizationID, legacyBatchID, userID, time.Now())
}

// ListLegacyBatches implements portssvc.LegacyBatchSvcFacade. Reads require
// membership only.
func (s *legacyBatchService) ListLegacyBatches(ctx context.Context, organizationID string, userID string) ([]domain.LegacyBatch, error) {
	if err := s.userSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	batches, err := s.legacyRepo.FindLegacyBatches(ctx, organizationID, time.Now())
	if err != nil {
		return nil, err
	}
	if batches == nil {
		batches = []domain.LegacyBatch{}
	}
	return batches, nil
}
