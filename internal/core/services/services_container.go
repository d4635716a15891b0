package services

import (
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, telemetry portssvc.TelemetryRecorder) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{
		Notifier:  notifier,
		Telemetry: telemetry,
	}

	// Flow service first since application submission depends on it
	container.Flow = NewApprovalFlowService(repos.FlowRepo, repos.ApprovalRepo)

	container.Application = NewApplicationService(
		repos.ApplicationRepo,
		repos.ApprovalRepo,
		repos.UserRepo,
		container.Flow,
		notifier,
		telemetry,
	)
	container.Approval = NewApprovalService(repos.ApprovalRepo, repos.ApplicationRepo, repos.FlowRepo, telemetry)
	container.User = NewUserService(repos.UserRepo, repos.OrganizationRepo)
	container.Dashboard = NewDashboardService(repos.ApplicationRepo, repos.ApprovalRepo, repos.UserRepo)

	return container
}
