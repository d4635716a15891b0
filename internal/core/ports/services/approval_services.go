package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// ApprovalReaderSvc defines read operations for approval data
type ApprovalReaderSvc interface {
	// GetApprovalByID retrieves a specific approval by its ID.
	GetApprovalByID(ctx context.Context, approvalID string, requestingUserID string) (*domain.Approval, error)

	// ListMyPendingApprovals retrieves the requesting user's pending rows,
	// flagging which ones are currently actionable.
	ListMyPendingApprovals(ctx context.Context, requestingUserID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)
}

// ApprovalWriterSvc defines decision operations on approval rows
type ApprovalWriterSvc interface {
	// Approve records an approval on a single row.
	Approve(ctx context.Context, approvalID string, comment *string, requestingUserID string) (*domain.ApprovalActionResult, error)

	// Reject records a rejection on a single row. The comment is mandatory.
	Reject(ctx context.Context, approvalID string, comment string, requestingUserID string) (*domain.ApprovalActionResult, error)

	// Skip marks a single row skipped.
	Skip(ctx context.Context, approvalID string, comment *string, requestingUserID string) (*domain.ApprovalActionResult, error)
}

// ApprovalBulkSvc defines bulk decision operations
type ApprovalBulkSvc interface {
	// BulkApprove approves the listed rows, collecting per-item failures
	// without aborting the batch.
	BulkApprove(ctx context.Context, approvalIDs []string, comment *string, requestingUserID string) (*dto.BulkActionResult, error)

	// BulkReject rejects the listed rows. The comment is mandatory.
	BulkReject(ctx context.Context, approvalIDs []string, comment string, requestingUserID string) (*dto.BulkActionResult, error)

	// ApproveAll approves every pending row currently assigned to the user.
	ApproveAll(ctx context.Context, comment *string, requestingUserID string) (*dto.BulkActionResult, error)

	// RejectAll rejects every pending row currently assigned to the user.
	RejectAll(ctx context.Context, comment string, requestingUserID string) (*dto.BulkActionResult, error)
}

// ApprovalSvcFacade combines all approval-related service interfaces
// This is a facade for clients that need access to all operations
type ApprovalSvcFacade interface {
	ApprovalReaderSvc
	ApprovalWriterSvc
	ApprovalBulkSvc
}
