package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Staging  StagingSvcFacade
	Approval ApprovalSvcFacade
	Ledger   LedgerReaderSvc

	// BatchQueue is nil when no background worker is configured.
	BatchQueue BatchDispositionQueue
}
