package dto

import (
	"time"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateApplicationRequest defines the payload for creating an application.
type CreateApplicationRequest struct {
	Title         string           `json:"title" binding:"required,max=255"`
	Description   string           `json:"description" binding:"required"`
	Type          string           `json:"type" binding:"required,oneof=expense leave purchase other"`
	Priority      string           `json:"priority" binding:"required,oneof=low medium high urgent"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	RequestedDate *time.Time       `json:"requestedDate,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
}

// UpdateApplicationRequest defines the payload for updating an application.
// Nil fields are left unchanged.
type UpdateApplicationRequest struct {
	Title         *string          `json:"title,omitempty" binding:"omitempty,max=255"`
	Description   *string          `json:"description,omitempty"`
	Priority      *string          `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	RequestedDate *time.Time       `json:"requestedDate,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
}

// ListApplicationsParams holds the typed filters for listing applications.
// Each field maps to an explicit predicate in the repository.
type ListApplicationsParams struct {
	ApplicantID *string `form:"-"`
	Status      *string `form:"status" binding:"omitempty,oneof=draft under_review approved rejected cancelled"`
	Type        *string `form:"type" binding:"omitempty,oneof=expense leave purchase other"`
	Limit       int     `form:"limit"`
	NextToken   *string `form:"nextToken"`
}

// ApplicationResponse defines the data returned for an application.
type ApplicationResponse struct {
	ApplicationID  string           `json:"applicationID"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Type           string           `json:"type"`
	Priority       string           `json:"priority"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	RequestedDate  *time.Time       `json:"requestedDate,omitempty"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	Status         string           `json:"status"`
	ApplicantID    string           `json:"applicantID"`
	ApprovalFlowID *string          `json:"approvalFlowID,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ListApplicationsResponse is the paginated listing payload.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ApplicationDetailResponse combines an application with its approval rows.
type ApplicationDetailResponse struct {
	Application ApplicationResponse `json:"application"`
	Approvals   []ApprovalResponse  `json:"approvals"`
}

// ToApplicationResponse converts a domain.Application to its response DTO.
func ToApplicationResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID:  a.ApplicationID,
		Title:          a.Title,
		Description:    a.Description,
		Type:           string(a.Type),
		Priority:       string(a.Priority),
		Amount:         a.Amount,
		RequestedDate:  a.RequestedDate,
		DueDate:        a.DueDate,
		Status:         string(a.Status),
		ApplicantID:    a.ApplicantID,
		ApprovalFlowID: a.ApprovalFlowID,
		CreatedAt:      a.CreatedAt,
	}
}

// ToApplicationResponses converts a slice of domain applications.
func ToApplicationResponses(apps []domain.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, len(apps))
	for i, a := range apps {
		responses[i] = ToApplicationResponse(&a)
	}
	return responses
}
