package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	DocumentRepo     DocumentRepositoryWithTx
	EmployeeRepo     EmployeeRepositoryFacade
	StatusCodeRepo   StatusCodeReader
	NotificationRepo NotificationRepository
}
