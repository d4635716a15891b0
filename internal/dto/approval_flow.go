package dto

import (
	"time"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// FlowStepRequest defines one step of a flow being created.
type FlowStepRequest struct {
	Type         string   `json:"type" binding:"required,oneof=review approve"`
	Approvers    []string `json:"approvers" binding:"required,min=1"`
	ApprovalMode string   `json:"approvalMode" binding:"required,oneof=all any_one"`
}

// CreateFlowRequest defines the payload for creating an approval flow.
type CreateFlowRequest struct {
	Name            string            `json:"name" binding:"required,max=255"`
	Description     string            `json:"description"`
	ApplicationType string            `json:"applicationType" binding:"required,oneof=expense leave purchase other"`
	OrganizationID  string            `json:"organizationID" binding:"required"`
	Steps           []FlowStepRequest `json:"steps" binding:"required,min=1,dive"`
}

// UpdateFlowRequest defines the payload for updating a flow. Nil fields are
// left unchanged. Steps may only be replaced while no approval references the
// flow yet.
type UpdateFlowRequest struct {
	Name        *string           `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string           `json:"description,omitempty"`
	Steps       []FlowStepRequest `json:"steps,omitempty" binding:"omitempty,min=1,dive"`
}

// FlowStepResponse mirrors a configured step.
type FlowStepResponse struct {
	Type         string   `json:"type"`
	Approvers    []string `json:"approvers"`
	ApprovalMode string   `json:"approvalMode"`
}

// FlowResponse defines the data returned for an approval flow.
type FlowResponse struct {
	FlowID          string             `json:"flowID"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	ApplicationType string             `json:"applicationType"`
	OrganizationID  string             `json:"organizationID"`
	StepCount       int                `json:"stepCount"`
	Steps           []FlowStepResponse `json:"steps"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToFlowResponse converts a domain.ApprovalFlow to its response DTO.
func ToFlowResponse(f *domain.ApprovalFlow) FlowResponse {
	steps := make([]FlowStepResponse, len(f.Steps))
	for i, s := range f.Steps {
		steps[i] = FlowStepResponse{
			Type:         string(s.Type),
			Approvers:    s.Approvers,
			ApprovalMode: string(s.ApprovalMode),
		}
	}
	return FlowResponse{
		FlowID:          f.FlowID,
		Name:            f.Name,
		Description:     f.Description,
		ApplicationType: string(f.ApplicationType),
		OrganizationID:  f.OrganizationID,
		StepCount:       f.StepCount,
		Steps:           steps,
		IsActive:        f.IsActive,
		CreatedAt:       f.CreatedAt,
	}
}
