package services

import (
	"context"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
)

// UserSvcFacade provides user lookup, registration and credential verification.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	// VerifyCredentials returns the user when username and password match.
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
	// AuthorizeUserAction checks the user belongs to the organization and holds
	// at least the required role.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, required domain.OrgRole) error
}

// LegacyBatchSvcFacade manages manually entered pre-tracking inventory. Writes
// require the admin role.
type LegacyBatchSvcFacade interface {
	CreateLegacyBatch(ctx context.Context, organizationID string, req dto.CreateLegacyBatchRequest, userID string) (*domain.LegacyBatch, error)
	UpdateLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, req dto.UpdateLegacyBatchRequest, userID string) (*domain.LegacyBatch, error)
	DeleteLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, userID string) error
	ListLegacyBatches(ctx context.Context, organizationID string, userID string) ([]domain.LegacyBatch, error)
}
