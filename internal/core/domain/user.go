package domain

// UserRole determines what a user may do beyond submitting applications.
type UserRole string

const (
	RoleApplicant UserRole = "applicant"
	RoleApprover  UserRole = "approver"
	RoleAdmin     UserRole = "admin"
)

// User represents a member of an organization.
// Any user may submit applications; approvers and admins may also act on
// approvals assigned to them.
type User struct {
	UserID         string   `json:"userID"` // Primary Key (UUID)
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	PasswordHash   string   `json:"-"`
	Role           UserRole `json:"role"`
	OrganizationID *string  `json:"organizationID,omitempty"` // Nullable weak reference
	AuditFields
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsReviewer reports whether the user is reviewer-capable, i.e. may be named
// as an approver in a flow step.
func (u *User) IsReviewer() bool {
	return u.Role == RoleApprover || u.Role == RoleAdmin
}
