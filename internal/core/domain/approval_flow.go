package domain

// StepType distinguishes review stages from final approval stages.
type StepType string

const (
	StepReview  StepType = "review"
	StepApprove StepType = "approve"
)

// ApprovalMode controls how many approvers of a step must act for it to pass.
type ApprovalMode string

const (
	// ModeAll requires every approver of the step to approve.
	ModeAll ApprovalMode = "all"
	// ModeAnyOne resolves the step on the first approval.
	ModeAnyOne ApprovalMode = "any_one"
)

// FlowStep is one ordered stage of an approval flow.
type FlowStep struct {
	Type         StepType     `json:"type"`
	Approvers    []string     `json:"approvers"` // UserID references, one Approval row each
	ApprovalMode ApprovalMode `json:"approval_mode"`
}

// FlowConfig is the ordered sequence of step definitions. Order is
// significant and preserved exactly as stored.
type FlowConfig []FlowStep

// ApprovalFlow is the per-organization template that approvals are
// materialized from. It is a template, not a live document: once approvals
// have been created from it, the configuration must not change.
type ApprovalFlow struct {
	FlowID          string          `json:"flowID"` // Primary Key (UUID)
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ApplicationType ApplicationType `json:"applicationType"` // Type it matches; "other" acts as wildcard fallback
	OrganizationID  string          `json:"organizationID"`
	StepCount       int             `json:"stepCount"`
	Steps           FlowConfig      `json:"steps"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// TotalApprovers returns the number of Approval rows a flow materializes,
// one per (step, approver) pair.
func (f *ApprovalFlow) TotalApprovers() int {
	n := 0
	for _, step := range f.Steps {
		n += len(step.Approvers)
	}
	return n
}
