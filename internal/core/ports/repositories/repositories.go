package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ApplicationRepo  ApplicationRepositoryFacade
	ApprovalRepo     ApprovalRepositoryFacade
	FlowRepo         ApprovalFlowRepositoryFacade
	UserRepo         UserRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
}
