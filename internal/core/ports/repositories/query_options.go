package repositories

import (
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// ApplicationQueryOptions narrows application listings. Every field maps to
// an explicit SQL predicate; nil fields are not filtered on.
type ApplicationQueryOptions struct {
	ApplicantID *string
	Status      *domain.ApplicationStatus
	Type        *domain.ApplicationType
	Limit       int
	NextToken   *string
}

// ApprovalQueryOptions narrows approval listings.
type ApprovalQueryOptions struct {
	IDs           []string
	ApproverID    *string
	ApplicationID *string
	Status        *domain.ApprovalStatus
	Limit         int
	NextToken     *string
}
