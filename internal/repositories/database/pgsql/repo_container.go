package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	applicationRepo := newPgxApplicationRepository(dbPool)
	approvalRepo := newPgxApprovalRepository(dbPool)
	flowRepo := newPgxApprovalFlowRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	organizationRepo := newPgxOrganizationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ApplicationRepo:  applicationRepo,
		ApprovalRepo:     approvalRepo,
		FlowRepo:         flowRepo,
		UserRepo:         userRepo,
		OrganizationRepo: organizationRepo,
	}
}
