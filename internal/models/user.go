package models

// User represents an account holder within the system.
type User struct {
	UserID         string  `db:"user_id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	PasswordHash   string  `db:"password_hash"`
	Role           string  `db:"role"`
	OrganizationID *string `db:"organization_id"` // Nullable
	AuditFields
}
