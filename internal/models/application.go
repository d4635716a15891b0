package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Application represents a request travelling through an approval flow.
type Application struct {
	ApplicationID  string           `db:"application_id"`
	Title          string           `db:"title"`
	Description    string           `db:"description"`
	Type           string           `db:"type"`
	Priority       string           `db:"priority"`
	Amount         *decimal.Decimal `db:"amount"`         // Nullable
	RequestedDate  *time.Time       `db:"requested_date"` // Nullable
	DueDate        *time.Time       `db:"due_date"`       // Nullable
	Status         string           `db:"status"`
	ApplicantID    string           `db:"applicant_id"`
	ApprovalFlowID *string          `db:"approval_flow_id"` // Nullable until submission
	AuditFields
}
