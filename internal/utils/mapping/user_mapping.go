package mapping

import (
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/models"
)

// ToModelUser converts a domain User to a model User. The password hash is
// passed separately; the domain type never carries it.
func ToModelUser(d domain.User, passwordHash string) models.User {
	return models.User{
		UserID:         d.UserID,
		OrganizationID: d.OrganizationID,
		Username:       d.Username,
		PasswordHash:   passwordHash,
		Name:           d.Name,
		Role:           string(d.Role),
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User, dropping the hash.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Username:       m.Username,
		Name:           m.Name,
		Role:           domain.OrgRole(m.Role),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToDomainOrganization converts a model Organization to its domain form.
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		RegistryNumber: m.RegistryNumber,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
