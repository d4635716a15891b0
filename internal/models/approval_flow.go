package models

// ApprovalFlow represents a flow definition. FlowConfig carries the ordered
// step configuration as JSONB.
type ApprovalFlow struct {
	FlowID          string `db:"flow_id"`
	Name            string `db:"name"`
	Description     string `db:"description"`
	ApplicationType string `db:"application_type"`
	OrganizationID  string `db:"organization_id"`
	StepCount       int    `db:"step_count"`
	FlowConfig      []byte `db:"flow_config"` // JSONB
	IsActive        bool   `db:"is_active"`
	AuditFields
}
