package repositories

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// ApplicationReader defines read operations for application data
type ApplicationReader interface {
	// FindApplicationByID retrieves a specific application by its unique identifier.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	// ListApplications retrieves a paginated list of applications matching the
	// given options using token-based pagination.
	// It returns the applications, a token for the next page, and an error.
	ListApplications(ctx context.Context, opts ApplicationQueryOptions) ([]domain.Application, *string, error)

	// CountApplicationsByStatus returns the number of applications per status,
	// optionally restricted to a single applicant.
	CountApplicationsByStatus(ctx context.Context, applicantID *string) (map[domain.ApplicationStatus]int64, error)
}

// ApplicationWriter defines write operations for application data
type ApplicationWriter interface {
	// SaveApplication persists a new application.
	SaveApplication(ctx context.Context, application domain.Application) error

	// UpdateApplication updates an existing application's details.
	UpdateApplication(ctx context.Context, application domain.Application) error

	// UpdateApplicationStatus transitions the application to the given status,
	// attaching a flow reference when one is supplied. The update is guarded
	// so a concurrent transition cannot be overwritten silently.
	UpdateApplicationStatus(ctx context.Context, applicationID string, from domain.ApplicationStatus, to domain.ApplicationStatus, approvalFlowID *string, updatedBy string) error

	// DeleteApplication removes a draft application permanently.
	DeleteApplication(ctx context.Context, applicationID string) error
}

// ApplicationRepositoryFacade combines all application-related repository interfaces
// This is a facade for clients that need access to all operations
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
}

// ApplicationRepositoryWithTx extends ApplicationRepositoryFacade with transaction capabilities
type ApplicationRepositoryWithTx interface {
	ApplicationRepositoryFacade
	TransactionManager
}
