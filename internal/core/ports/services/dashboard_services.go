package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// DashboardSvc aggregates the counters shown on a user's landing page.
type DashboardSvc interface {
	// GetStats returns application and approval counters for the user.
	GetStats(ctx context.Context, requestingUserID string) (*dto.DashboardStats, error)
}
