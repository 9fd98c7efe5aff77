package services

import (
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Leaf services first; the orchestrator depends on all of them.
	container.Employee = NewEmployeeService(repos.EmployeeRepo)
	container.Status = NewStatusResolverService(repos.StatusCodeRepo)
	container.Notifier = NewNotificationService(repos.NotificationRepo)

	container.Approval = NewApprovalService(
		repos.DocumentRepo,
		container.Employee,
		container.Status,
		container.Notifier,
	)

	container.Token = NewTokenService(cfg, container.Employee)

	return container
}
