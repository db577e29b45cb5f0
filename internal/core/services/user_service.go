package services

import (
	"context"
	"errors"
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
	"github.com/orchardgauge/cidery_production_app/internal/utils"
)

// userService handles registration, credential verification and per-action
// authorization.
type userService struct {
	userRepo portsrepo.UserRepository
	orgRepo  portsrepo.OrganizationRepository
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepository, orgRepo portsrepo.OrganizationRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, orgRepo: orgRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser implements portssvc.UserSvcFacade. Only an admin of the target
// organization may register users into it.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, creatorUserID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.FindOrganizationByID(ctx, req.OrganizationID); err != nil {
		return nil, fmt.Errorf("organization %s: %w", req.OrganizationID, err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:         uuid.NewString(),
		OrganizationID: req.OrganizationID,
		Username:       req.Username,
		Name:           req.Name,
		Role:           role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user, hash); err != nil {
		return nil, err
	}

	logger.Info("User created",
		slog.String("user_id", user.UserID),
		slog.String("organization_id", user.OrganizationID))
	return &user, nil
}

// GetUserByID implements portssvc.UserSvcFacade.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// VerifyCredentials implements portssvc.UserSvcFacade. Lookup failure and a
// wrong password return the same error so the response does not leak which
// usernames exist.
func (s *userService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, hash, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, hash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// AuthorizeUserAction implements portssvc.UserSvcFacade.
func (s *userService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, required domain.OrgRole) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.OrganizationID != organizationID {
		return fmt.Errorf("user %s is not a member of organization %s: %w", userID, organizationID, apperrors.ErrForbidden)
	}
	if !user.Role.CanWrite(required) {
		return fmt.Errorf("user %s lacks the %s role: %w", userID, required, apperrors.ErrForbidden)
	}
	return nil
}
