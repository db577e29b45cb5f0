package services

import (
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
)

// NewServiceContainer wires every service facade from the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	inventorySvc := NewInventoryService(repos.Inventory)
	productionSvc := NewProductionService(repos.Production)
	userSvc := NewUserService(repos.User, repos.Organization)

	return &portssvc.ServiceContainer{
		Inventory:  inventorySvc,
		Production: productionSvc,
		User:       userSvc,
		Reconciliation: NewReconciliationService(
			inventorySvc,
			productionSvc,
			userSvc,
			repos.Reconciliation,
			repos.OpeningBalance,
			repos.Removal,
			repos.LegacyBatch,
		),
		TTBForm:     NewTTBFormService(repos.Inventory, repos.Removal, repos.Distillery, repos.Materials),
		Tax:         NewTaxService(repos.Rate),
		LegacyBatch: NewLegacyBatchService(repos.LegacyBatch, userSvc),
	}
}
