package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID         string  `json:"userID"` // Primary Key (e.g., UUID)
	OrganizationID string  `json:"organizationID"`
	Username       string  `json:"username"`
	Name           string  `json:"name"`
	Role           OrgRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// OrgRole is the member role within an organization.
type OrgRole string

const (
	RoleAdmin  OrgRole = "ADMIN"
	RoleMember OrgRole = "MEMBER"
)

// CanWrite reports whether the role may perform the action requiring the given
// minimum role. Admin-only actions: legacy batch writes, saving reconciliations.
func (r OrgRole) CanWrite(required OrgRole) bool {
	if required == RoleMember {
		return r == RoleMember || r == RoleAdmin
	}
	return r == RoleAdmin
}

// Organization is a bonded wine premises (the snapshot owner).
type Organization struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	RegistryNumber string `json:"registryNumber"` // e.g. "BWC-OR-21041"
	AuditFields
}
