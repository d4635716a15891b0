package domain

// Organization groups users and the approval flows that apply to them.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`
	Code           string `json:"code"` // Short unique code, e.g. "TOKYO-HQ"
	Description    string `json:"description"`
	AuditFields
}
