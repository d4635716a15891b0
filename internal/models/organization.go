package models

// Organization represents a tenant whose flows govern its members' applications.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Code           string `db:"code"`
	Description    string `db:"description"`
	AuditFields
}
