package dto

// DashboardStats summarizes the numbers shown on a user's dashboard.
type DashboardStats struct {
	MyApplications    int64 `json:"myApplications"`
	PendingApprovals  int64 `json:"pendingApprovals"`
	TotalApplications int64 `json:"totalApplications"`
	ApprovedTotal     int64 `json:"approvedTotal"`
	RejectedTotal     int64 `json:"rejectedTotal"`
}
