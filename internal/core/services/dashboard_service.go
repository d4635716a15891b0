package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// dashboardService aggregates landing page counters.
type dashboardService struct {
	appRepo      portsrepo.ApplicationReader
	approvalRepo portsrepo.ApprovalReader
	userRepo     portsrepo.UserReader
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(appRepo portsrepo.ApplicationReader, approvalRepo portsrepo.ApprovalReader, userRepo portsrepo.UserReader) portssvc.DashboardSvc {
	return &dashboardService{
		appRepo:      appRepo,
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
	}
}

// Ensure dashboardService implements the portssvc.DashboardSvc interface
var _ portssvc.DashboardSvc = (*dashboardService)(nil)

// GetStats returns application and approval counters for the user. Admins
// see organization-wide totals; everyone else sees their own.
func (s *dashboardService) GetStats(ctx context.Context, requestingUserID string) (*dto.DashboardStats, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	mine, err := s.appRepo.CountApplicationsByStatus(ctx, &requestingUserID)
	if err != nil {
		return nil, err
	}

	totals := mine
	if user.IsAdmin() {
		totals, err = s.appRepo.CountApplicationsByStatus(ctx, nil)
		if err != nil {
			return nil, err
		}
	}

	pending, err := s.approvalRepo.CountPendingByApprover(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		PendingApprovals: pending,
		ApprovedTotal:    totals[domain.StatusApproved],
		RejectedTotal:    totals[domain.StatusRejected],
	}
	for _, count := range mine {
		stats.MyApplications += count
	}
	for _, count := range totals {
		stats.TotalApplications += count
	}
	return stats, nil
}
