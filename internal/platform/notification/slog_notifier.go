// Package notification delivers submission notices to approvers. The only
// shipping implementation writes structured log lines; a mail or chat
// integration can replace it behind the same interface.
package notification

import (
	"context"
	"log/slog"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

// SlogNotifier logs each notification instead of delivering it externally.
type SlogNotifier struct{}

// NewSlogNotifier creates a logging notifier.
func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

// Ensure SlogNotifier implements the portssvc.Notifier interface
var _ portssvc.Notifier = (*SlogNotifier)(nil)

// ApplicationSubmitted logs one line per approver of the first step.
func (n *SlogNotifier) ApplicationSubmitted(ctx context.Context, application domain.Application, approverIDs []string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, approverID := range approverIDs {
		logger.Info("Notifying approver of submission",
			slog.String("approver_id", approverID),
			slog.String("application_id", application.ApplicationID),
			slog.String("title", application.Title))
	}
}
