package domain

// Step advancement is computed as pure functions over the persisted Approval
// rows for an application. Callers re-evaluate from current rows on every
// transition instead of keeping counters, so redundant evaluation under
// concurrent actors is safe and idempotent.

// StepRows returns the approval rows belonging to the given step, in the
// order they appear in approvals.
func StepRows(approvals []Approval, step int) []Approval {
	rows := make([]Approval, 0, len(approvals))
	for _, a := range approvals {
		if a.StepNumber == step {
			rows = append(rows, a)
		}
	}
	return rows
}

// StepPassed reports whether a step's approval-mode condition is satisfied.
//
// any_one: passes the moment any row is approved.
// all: passes when every non-skipped row is approved and at least one row is
// approved. A skip excludes that approver from the all-must-approve
// requirement; a step whose rows are all skipped never passes on its own.
func StepPassed(step FlowStep, rows []Approval) bool {
	switch step.ApprovalMode {
	case ModeAnyOne:
		for _, r := range rows {
			if r.Status == ApprovalApproved {
				return true
			}
		}
		return false
	default: // ModeAll
		approved := 0
		for _, r := range rows {
			switch r.Status {
			case ApprovalApproved:
				approved++
			case ApprovalSkipped:
				// excluded from the requirement
			default:
				return false
			}
		}
		return approved > 0
	}
}

// HasRejection reports whether any row of the application is rejected.
func HasRejection(approvals []Approval) bool {
	for _, a := range approvals {
		if a.Status == ApprovalRejected {
			return true
		}
	}
	return false
}

// CurrentStepIndex returns the lowest-numbered step that has not passed.
// It returns len(flow) when every step has passed. Only the current step's
// approvers may act; raw pending status on a row never implies
// actionability by itself.
func CurrentStepIndex(flow FlowConfig, approvals []Approval) int {
	for i, step := range flow {
		if !StepPassed(step, StepRows(approvals, i)) {
			return i
		}
	}
	return len(flow)
}

// EvaluateOutcome recomputes the application status implied by the current
// approval rows. A single rejection anywhere short-circuits to rejected;
// all steps passing yields approved; anything else stays under review.
func EvaluateOutcome(flow FlowConfig, approvals []Approval) ApplicationStatus {
	if HasRejection(approvals) {
		return StatusRejected
	}
	if CurrentStepIndex(flow, approvals) == len(flow) {
		return StatusApproved
	}
	return StatusUnderReview
}

// RowActionable reports whether a pending row may be transitioned given the
// application's status and the flow's current step.
//
// While the application is under review only the current step is actionable.
// Once the application is approved or rejected, rows of steps that had
// already become current may still record a terminal action for the
// historical record, but the application status is never re-evaluated.
// A cancelled application refuses all late actions.
func RowActionable(flow FlowConfig, approvals []Approval, row *Approval, appStatus ApplicationStatus) bool {
	if !row.IsPending() {
		return false
	}
	switch appStatus {
	case StatusUnderReview:
		return row.StepNumber == CurrentStepIndex(flow, approvals)
	case StatusApproved, StatusRejected:
		return row.StepNumber <= CurrentStepIndex(flow, approvals)
	default:
		return false
	}
}
