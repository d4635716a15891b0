package repositories

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// ApprovalFlowReader defines read operations for approval flow data
type ApprovalFlowReader interface {
	// FindFlowByID retrieves a specific flow by its unique identifier.
	FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error)

	// FindActiveFlow retrieves the active flow configured for the given
	// organization and application type. Returns apperrors.ErrNotFound when
	// no such flow exists; fallback resolution is the caller's concern.
	FindActiveFlow(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error)

	// ListFlowsByOrganization retrieves all flows of an organization.
	ListFlowsByOrganization(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error)

	// HasApprovals reports whether any approval row references the flow.
	HasApprovals(ctx context.Context, flowID string) (bool, error)
}

// ApprovalFlowWriter defines write operations for approval flow data
type ApprovalFlowWriter interface {
	// SaveFlow persists a new approval flow.
	SaveFlow(ctx context.Context, flow domain.ApprovalFlow) error

	// UpdateFlow updates an existing flow's details.
	UpdateFlow(ctx context.Context, flow domain.ApprovalFlow) error

	// DeactivateFlow marks a flow inactive so it no longer matches new submissions.
	DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error
}

// ApprovalFlowRepositoryFacade combines all flow-related repository interfaces
type ApprovalFlowRepositoryFacade interface {
	ApprovalFlowReader
	ApprovalFlowWriter
}
