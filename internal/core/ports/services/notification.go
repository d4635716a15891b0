package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
)

// Notifier delivers submission notices to the approvers of the first step.
// Delivery failures must not fail the submission.
type Notifier interface {
	// ApplicationSubmitted notifies the given approvers that an application
	// entered review.
	ApplicationSubmitted(ctx context.Context, application domain.Application, approverIDs []string)
}
