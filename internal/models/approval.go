package models

import "time"

// Approval represents one approver's slot at one step of an application's flow.
type Approval struct {
	ApprovalID     string     `db:"approval_id"`
	ApplicationID  string     `db:"application_id"`
	ApproverID     string     `db:"approver_id"`
	ApprovalFlowID string     `db:"approval_flow_id"`
	StepNumber     int        `db:"step_number"`
	StepType       string     `db:"step_type"`
	Status         string     `db:"status"`
	Comment        *string    `db:"comment"`  // Nullable
	ActedAt        *time.Time `db:"acted_at"` // Nullable until decided
	AuditFields
}
