package dto

import (
	"time"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// ApprovalActionRequest is the payload for approve/skip actions, where the
// comment is optional.
type ApprovalActionRequest struct {
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// ApprovalRejectRequest is the payload for reject actions; the comment is
// mandatory.
type ApprovalRejectRequest struct {
	Comment string `json:"comment" binding:"required,max=1000"`
}

// BulkApprovalRequest is the payload for bulk approve.
type BulkApprovalRequest struct {
	ApprovalIDs []string `json:"approvalIDs" binding:"required,min=1"`
	Comment     *string  `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// BulkRejectRequest is the payload for bulk reject; the comment is mandatory.
type BulkRejectRequest struct {
	ApprovalIDs []string `json:"approvalIDs" binding:"required,min=1"`
	Comment     string   `json:"comment" binding:"required,max=1000"`
}

// BulkActionResult aggregates per-item outcomes of a bulk operation.
// Items that fail a business rule are recorded here without aborting the
// batch; unexpected errors abort the batch and propagate instead.
type BulkActionResult struct {
	TotalCount   int      `json:"totalCount"`
	SuccessCount int      `json:"successCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}

// ApprovalResponse defines the data returned for a single approval row.
type ApprovalResponse struct {
	ApprovalID     string     `json:"approvalID"`
	ApplicationID  string     `json:"applicationID"`
	ApproverID     string     `json:"approverID"`
	ApprovalFlowID string     `json:"approvalFlowID"`
	StepNumber     int        `json:"stepNumber"`
	StepType       string     `json:"stepType"`
	Status         string     `json:"status"`
	Comment        *string    `json:"comment,omitempty"`
	ActedAt        *time.Time `json:"actedAt,omitempty"`
	Actionable     bool       `json:"actionable"`
}

// ApprovalActionResponse is returned after a single approve/reject/skip,
// echoing the row and the application status it produced.
type ApprovalActionResponse struct {
	Approval          ApprovalResponse `json:"approval"`
	ApplicationStatus string           `json:"applicationStatus"`
}

// ListApprovalsParams holds the typed filters for listing approvals.
type ListApprovalsParams struct {
	Status    *string `form:"status" binding:"omitempty,oneof=pending approved rejected skipped"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListApprovalsResponse is the paginated listing payload.
type ListApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToApprovalResponse converts a domain.Approval to its response DTO.
func ToApprovalResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID:     a.ApprovalID,
		ApplicationID:  a.ApplicationID,
		ApproverID:     a.ApproverID,
		ApprovalFlowID: a.ApprovalFlowID,
		StepNumber:     a.StepNumber,
		StepType:       string(a.StepType),
		Status:         string(a.Status),
		Comment:        a.Comment,
		ActedAt:        a.ActedAt,
	}
}

// ToApprovalResponses converts a slice of domain approvals.
func ToApprovalResponses(approvals []domain.Approval) []ApprovalResponse {
	responses := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		responses[i] = ToApprovalResponse(&a)
	}
	return responses
}
