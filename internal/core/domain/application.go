package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus indicates where an application is in its lifecycle.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusCancelled   ApplicationStatus = "cancelled"
)

// ApplicationType classifies an application and drives flow matching.
type ApplicationType string

const (
	TypeExpense  ApplicationType = "expense"
	TypeLeave    ApplicationType = "leave"
	TypePurchase ApplicationType = "purchase"
	// TypeOther doubles as the wildcard flow type during matching.
	TypeOther ApplicationType = "other"
)

// Priority expresses how urgent an application is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Application is a request submitted by an applicant that travels through an
// approval flow. Status transitions:
//
//	draft -> under_review -> {approved, rejected, cancelled}
//	draft -> cancelled
//
// No transition re-enters draft.
type Application struct {
	ApplicationID  string            `json:"applicationID"` // Primary Key (UUID)
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Type           ApplicationType   `json:"type"`
	Priority       Priority          `json:"priority"`
	Amount         *decimal.Decimal  `json:"amount,omitempty"` // Required when Type is expense; immutable once under review
	RequestedDate  *time.Time        `json:"requestedDate,omitempty"`
	DueDate        *time.Time        `json:"dueDate,omitempty"`
	Status         ApplicationStatus `json:"status"`
	ApplicantID    string            `json:"applicantID"`              // Immutable after creation
	ApprovalFlowID *string           `json:"approvalFlowID,omitempty"` // Set once a flow attaches
	AuditFields
}

// IsDraft reports whether the application has not been submitted yet.
func (a *Application) IsDraft() bool {
	return a.Status == StatusDraft
}

// IsTerminal reports whether the application has reached a final state.
func (a *Application) IsTerminal() bool {
	switch a.Status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanBeEdited reports whether field updates are allowed at all. Amount
// immutability under review is enforced separately by the service, since it
// depends on the requested change.
func (a *Application) CanBeEdited() bool {
	return a.Status == StatusDraft || a.Status == StatusUnderReview
}

// CanBeSubmitted reports whether Submit is legal.
func (a *Application) CanBeSubmitted() bool {
	return a.Status == StatusDraft
}

// CanBeCancelled reports whether Cancel is legal.
func (a *Application) CanBeCancelled() bool {
	return a.Status == StatusDraft || a.Status == StatusUnderReview
}

// CanBeDeleted reports whether hard deletion is legal. Draft is the only
// state from which delete is allowed.
func (a *Application) CanBeDeleted() bool {
	return a.Status == StatusDraft
}

// Submit moves the application from draft to under review. It does not
// select or attach a flow; that is the resolver's job, invoked by the
// orchestrating service immediately afterwards.
func (a *Application) Submit() error {
	if !a.CanBeSubmitted() {
		return ErrInvalidTransition
	}
	a.Status = StatusUnderReview
	return nil
}

// Cancel moves the application to cancelled from draft or under review.
func (a *Application) Cancel() error {
	if !a.CanBeCancelled() {
		return ErrInvalidTransition
	}
	a.Status = StatusCancelled
	return nil
}

// ValidApplicationType reports whether t is one of the known types.
func ValidApplicationType(t ApplicationType) bool {
	switch t {
	case TypeExpense, TypeLeave, TypePurchase, TypeOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
