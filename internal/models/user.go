package models

import "time"

// User represents a user row, including the password hash which never leaves
// the persistence layer except for credential verification.
type User struct {
	UserID         string `db:"user_id"`
	OrganizationID string `db:"organization_id"`
	Username       string `db:"username"`
	PasswordHash   string `db:"password_hash"`
	Name           string `db:"name"`
	Role           string `db:"role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// Organization represents a bonded premises row.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	RegistryNumber string `db:"registry_number"`
	AuditFields
}
