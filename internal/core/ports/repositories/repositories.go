package repositories

// RepositoryProvider bundles every repository implementation for wiring into
// the service container.
type RepositoryProvider struct {
	Inventory      InventoryRepository
	Production     ProductionRepository
	Removal        RemovalRepository
	Reconciliation ReconciliationRepository
	OpeningBalance OpeningBalanceRepository
	LegacyBatch    LegacyBatchRepository
	Distillery     DistilleryRepository
	Materials      MaterialsRepository
	Rate           RateRepository
	User           UserRepository
	Organization   OrganizationRepository
}
