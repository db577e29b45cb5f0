package repositories

import (
	"context"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// UserRepository persists application users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// FindUserByUsername also returns the stored password hash for verification.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, string, error)
}

// OrganizationRepository reads bonded premises records.
type OrganizationRepository interface {
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}
