package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// ApprovalFlowReaderSvc defines read operations for approval flow data
type ApprovalFlowReaderSvc interface {
	// GetFlowByID retrieves a specific flow by its ID.
	GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error)

	// ListFlows retrieves all flows of an organization.
	ListFlows(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error)

	// FindBestMatch resolves the flow for a submission: an active flow for
	// the exact application type, falling back to the organization's "other"
	// flow. Returns apperrors.ErrNoFlowConfigured when neither exists.
	FindBestMatch(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error)
}

// ApprovalFlowWriterSvc defines write operations for approval flow data
type ApprovalFlowWriterSvc interface {
	// CreateFlow persists a new approval flow.
	CreateFlow(ctx context.Context, req dto.CreateFlowRequest, creatorUserID string) (*domain.ApprovalFlow, error)

	// UpdateFlow updates a flow's metadata. Replacing steps is refused once
	// approvals reference the flow.
	UpdateFlow(ctx context.Context, flowID string, req dto.UpdateFlowRequest, requestingUserID string) (*domain.ApprovalFlow, error)

	// DeactivateFlow marks a flow inactive.
	DeactivateFlow(ctx context.Context, flowID string, requestingUserID string) error

	// CreateApprovals materializes the approval rows of a freshly submitted
	// application, one per approver per step.
	CreateApprovals(ctx context.Context, application domain.Application, flow domain.ApprovalFlow, creatorUserID string) ([]domain.Approval, error)
}

// ApprovalFlowSvcFacade combines all flow-related service interfaces
type ApprovalFlowSvcFacade interface {
	ApprovalFlowReaderSvc
	ApprovalFlowWriterSvc
}
