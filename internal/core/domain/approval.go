package domain

import (
	"errors"
	"time"
)

// ErrInvalidTransition indicates a state machine guard rejected a transition.
var ErrInvalidTransition = errors.New("invalid state transition")

// ApprovalStatus indicates the state of a single approver's row.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalSkipped  ApprovalStatus = "skipped"
)

// Approval is one approver's slot in one step of an application's flow.
// Rows are created eagerly for every step when the flow attaches and each
// row transitions exactly once: pending -> {approved, rejected, skipped}.
type Approval struct {
	ApprovalID     string         `json:"approvalID"` // Primary Key (UUID)
	ApplicationID  string         `json:"applicationID"`
	ApproverID     string         `json:"approverID"`
	ApprovalFlowID string         `json:"approvalFlowID"`
	StepNumber     int            `json:"stepNumber"` // 0-based, matches flow config index
	StepType       StepType       `json:"stepType"`
	Status         ApprovalStatus `json:"status"`
	Comment        *string        `json:"comment,omitempty"` // Required on reject
	ActedAt        *time.Time     `json:"actedAt,omitempty"` // Set on any terminal transition
	AuditFields
}

// IsPending reports whether the row has not been acted on yet.
func (a *Approval) IsPending() bool {
	return a.Status == ApprovalPending
}

// IsTerminal reports whether the row has been acted on.
func (a *Approval) IsTerminal() bool {
	return a.Status != ApprovalPending
}

// CanBeActedOnBy is the authorization predicate for mutating actions: the
// actor must be the designated approver and the row must still be pending.
// Admins are not exempt.
func (a *Approval) CanBeActedOnBy(userID string) bool {
	return a.ApproverID == userID && a.IsPending()
}

// ApprovalActionResult reports the outcome of recording a decision on a
// single approval row, including the application status after advancement.
type ApprovalActionResult struct {
	Approval          Approval
	ApplicationStatus ApplicationStatus
	StatusChanged     bool
}

// TerminalApprovalStatus reports whether s is a valid terminal status for a
// transition out of pending.
func TerminalApprovalStatus(s ApprovalStatus) bool {
	switch s {
	case ApprovalApproved, ApprovalRejected, ApprovalSkipped:
		return true
	}
	return false
}
