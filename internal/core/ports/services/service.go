package services

// ServiceContainer bundles every service facade for handler wiring.
type ServiceContainer struct {
	Inventory      InventorySvcFacade
	Production     ProductionSvcFacade
	Reconciliation ReconciliationSvcFacade
	TTBForm        TTBFormSvcFacade
	Tax            TaxSvcFacade
	LegacyBatch    LegacyBatchSvcFacade
	User           UserSvcFacade
}
