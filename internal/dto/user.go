package dto

import "github.com/orchardgauge/cidery_production_app/internal/core/domain"

// LoginRequest carries credential login input.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUserRequest registers a new user in an organization.
type CreateUserRequest struct {
	Username       string         `json:"username" binding:"required"`
	Password       string         `json:"password" binding:"required,min=8"`
	Name           string         `json:"name" binding:"required"`
	OrganizationID string         `json:"organizationID" binding:"required"`
	Role           domain.OrgRole `json:"role,omitempty"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserID         string         `json:"userID"`
	Username       string         `json:"username"`
	Name           string         `json:"name"`
	OrganizationID string         `json:"organizationID"`
	Role           domain.OrgRole `json:"role"`
}

// ToUserResponse maps a domain user to its public view.
func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Username:       u.Username,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
	}
}
