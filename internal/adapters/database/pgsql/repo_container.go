package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Inventory:      NewInventoryRepository(pool),
		Production:     NewProductionRepository(pool),
		Removal:        NewRemovalRepository(pool),
		Reconciliation: NewReconciliationRepository(pool),
		OpeningBalance: NewOpeningBalanceRepository(pool),
		LegacyBatch:    NewLegacyBatchRepository(pool),
		Distillery:     NewDistilleryRepository(pool),
		Materials:      NewMaterialsRepository(pool),
		Rate:           NewRateRepository(pool),
		User:           NewUserRepository(pool),
		Organization:   NewOrganizationRepository(pool),
	}
}
