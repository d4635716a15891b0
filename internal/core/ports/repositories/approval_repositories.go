package repositories

import (
	"context"
	"time"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// ApprovalReader defines read operations for approval data
type ApprovalReader interface {
	// FindApprovalByID retrieves a specific approval by its unique identifier.
	FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error)

	// FindApprovalsByApplicationID retrieves every approval row of an
	// application ordered by step number.
	FindApprovalsByApplicationID(ctx context.Context, applicationID string) ([]domain.Approval, error)

	// ListApprovals retrieves a paginated list of approvals matching the
	// given options using token-based pagination.
	ListApprovals(ctx context.Context, opts ApprovalQueryOptions) ([]domain.Approval, *string, error)

	// CountPendingByApprover returns the number of pending rows assigned to a user.
	CountPendingByApprover(ctx context.Context, approverID string) (int64, error)
}

// ApprovalWriter defines write operations for approval data
type ApprovalWriter interface {
	// SaveApprovals persists the full set of approval rows for an application
	// in a single batch.
	SaveApprovals(ctx context.Context, approvals []domain.Approval) error

	// TransitionApproval records a decision on one approval row and advances
	// the owning application, all within a single database transaction. The
	// application row is locked first so concurrent decisions serialize.
	TransitionApproval(ctx context.Context, approvalID string, to domain.ApprovalStatus, comment *string, actorID string, actedAt time.Time) (*domain.ApprovalActionResult, error)
}

// ApprovalRepositoryFacade combines all approval-related repository interfaces
// This is a facade for clients that need access to all operations
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}

// ApprovalRepositoryWithTx extends ApprovalRepositoryFacade with transaction capabilities
type ApprovalRepositoryWithTx interface {
	ApprovalRepositoryFacade
	TransactionManager
}
