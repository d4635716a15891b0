package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

var ErrCommentRequired = errors.New("a comment is required to reject")

// approvalService records decisions on approval rows and runs bulk actions.
type approvalService struct {
	approvalRepo portsrepo.ApprovalRepositoryFacade
	appRepo      portsrepo.ApplicationReader
	flowRepo     portsrepo.ApprovalFlowReader
	telemetry    portssvc.TelemetryRecorder
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(approvalRepo portsrepo.ApprovalRepositoryFacade, appRepo portsrepo.ApplicationReader, flowRepo portsrepo.ApprovalFlowReader, telemetry portssvc.TelemetryRecorder) portssvc.ApprovalSvcFacade {
	return &approvalService{
		approvalRepo: approvalRepo,
		appRepo:      appRepo,
		flowRepo:     flowRepo,
		telemetry:    telemetry,
	}
}

// Ensure approvalService implements the portssvc.ApprovalSvcFacade interface
var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// GetApprovalByID retrieves a specific approval by its ID.
func (s *approvalService) GetApprovalByID(ctx context.Context, approvalID string, requestingUserID string) (*domain.Approval, error) {
	approval, err := s.approvalRepo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if approval.ApproverID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	return approval, nil
}

// act runs the shared guard chain for a single decision, then delegates the
// atomic transition to the repository. Guard order matters: missing rows
// report not found, already decided rows report a conflict, and only then is
// authorization checked.
func (s *approvalService) act(ctx context.Context, approvalID string, to domain.ApprovalStatus, comment *string, requestingUserID string) (*domain.ApprovalActionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	approval, err := s.approvalRepo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if !approval.IsPending() {
		return nil, fmt.Errorf("%w: approval already %s", apperrors.ErrConflict, approval.Status)
	}
	if approval.ApproverID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	result, err := s.approvalRepo.TransitionApproval(ctx, approvalID, to, comment, requestingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Approval processed",
		slog.String("approval_id", approvalID),
		slog.String("decision", string(to)),
		slog.String("application_status", string(result.ApplicationStatus)))
	s.telemetry.RecordEvent(ctx, requestingUserID, "approval_processed", map[string]any{
		"approval_id":        approvalID,
		"application_id":     result.Approval.ApplicationID,
		"decision":           string(to),
		"application_status": string(result.ApplicationStatus),
		"status_changed":     result.StatusChanged,
	})
	return result, nil
}

// Approve records an approval on a single row.
func (s *approvalService) Approve(ctx context.Context, approvalID string, comment *string, requestingUserID string) (*domain.ApprovalActionResult, error) {
	return s.act(ctx, approvalID, domain.ApprovalApproved, comment, requestingUserID)
}

// Reject records a rejection on a single row. The comment is mandatory.
func (s *approvalService) Reject(ctx context.Context, approvalID string, comment string, requestingUserID string) (*domain.ApprovalActionResult, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCommentRequired)
	}
	return s.act(ctx, approvalID, domain.ApprovalRejected, &comment, requestingUserID)
}

// Skip marks a single row skipped.
func (s *approvalService) Skip(ctx context.Context, approvalID string, comment *string, requestingUserID string) (*domain.ApprovalActionResult, error) {
	return s.act(ctx, approvalID, domain.ApprovalSkipped, comment, requestingUserID)
}

// bulkErrorMessage classifies a business-rule failure for the per-item error
// list. Returns false for unexpected errors, which abort the whole batch.
func bulkErrorMessage(approvalID string, err error) (string, bool) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fmt.Sprintf("approval %s: not found", approvalID), true
	case errors.Is(err, apperrors.ErrConflict):
		return fmt.Sprintf("approval %s: already processed", approvalID), true
	case errors.Is(err, apperrors.ErrForbidden):
		return fmt.Sprintf("approval %s: not authorized", approvalID), true
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Sprintf("approval %s: not actionable", approvalID), true
	default:
		return "", false
	}
}

// bulkAct applies one decision to each listed row in order. Business-rule
// failures are collected per item without stopping the batch; anything else
// aborts and propagates.
func (s *approvalService) bulkAct(ctx context.Context, approvalIDs []string, to domain.ApprovalStatus, comment *string, requestingUserID string) (*dto.BulkActionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := &dto.BulkActionResult{TotalCount: len(approvalIDs)}
	for _, approvalID := range approvalIDs {
		if _, err := s.act(ctx, approvalID, to, comment, requestingUserID); err != nil {
			msg, expected := bulkErrorMessage(approvalID, err)
			if !expected {
				return nil, fmt.Errorf("bulk action failed on approval %s: %w", approvalID, err)
			}
			result.ErrorCount++
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.SuccessCount++
	}

	logger.Info("Bulk action completed",
		slog.String("decision", string(to)),
		slog.Int("total", result.TotalCount),
		slog.Int("succeeded", result.SuccessCount),
		slog.Int("failed", result.ErrorCount))
	s.telemetry.RecordEvent(ctx, requestingUserID, "bulk_action_completed", map[string]any{
		"decision":      string(to),
		"total_count":   result.TotalCount,
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	})
	return result, nil
}

// BulkApprove approves the listed rows.
func (s *approvalService) BulkApprove(ctx context.Context, approvalIDs []string, comment *string, requestingUserID string) (*dto.BulkActionResult, error) {
	return s.bulkAct(ctx, approvalIDs, domain.ApprovalApproved, comment, requestingUserID)
}

// BulkReject rejects the listed rows. The comment is mandatory.
func (s *approvalService) BulkReject(ctx context.Context, approvalIDs []string, comment string, requestingUserID string) (*dto.BulkActionResult, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCommentRequired)
	}
	return s.bulkAct(ctx, approvalIDs, domain.ApprovalRejected, &comment, requestingUserID)
}

// pendingIDsForUser collects every pending approval ID assigned to the user,
// walking pagination to the end.
func (s *approvalService) pendingIDsForUser(ctx context.Context, userID string) ([]string, error) {
	pending := domain.ApprovalPending
	var ids []string
	var nextToken *string
	for {
		opts := portsrepo.ApprovalQueryOptions{
			ApproverID: &userID,
			Status:     &pending,
			Limit:      100,
			NextToken:  nextToken,
		}
		approvals, token, err := s.approvalRepo.ListApprovals(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, a := range approvals {
			ids = append(ids, a.ApprovalID)
		}
		if token == nil {
			break
		}
		nextToken = token
	}
	return ids, nil
}

// ApproveAll approves every pending row currently assigned to the user.
// Having nothing pending is not an error; the result just reports zero items.
func (s *approvalService) ApproveAll(ctx context.Context, comment *string, requestingUserID string) (*dto.BulkActionResult, error) {
	ids, err := s.pendingIDsForUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &dto.BulkActionResult{}, nil
	}
	return s.bulkAct(ctx, ids, domain.ApprovalApproved, comment, requestingUserID)
}

// RejectAll rejects every pending row currently assigned to the user.
func (s *approvalService) RejectAll(ctx context.Context, comment string, requestingUserID string) (*dto.BulkActionResult, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCommentRequired)
	}
	ids, err := s.pendingIDsForUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &dto.BulkActionResult{}, nil
	}
	return s.bulkAct(ctx, ids, domain.ApprovalRejected, &comment, requestingUserID)
}

// ListMyPendingApprovals retrieves the requesting user's rows, flagging which
// are actionable given each application's current step.
func (s *approvalService) ListMyPendingApprovals(ctx context.Context, requestingUserID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	opts := portsrepo.ApprovalQueryOptions{
		ApproverID: &requestingUserID,
		Limit:      params.Limit,
		NextToken:  params.NextToken,
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if params.Status != nil {
		status := domain.ApprovalStatus(*params.Status)
		opts.Status = &status
	} else {
		pending := domain.ApprovalPending
		opts.Status = &pending
	}

	approvals, nextToken, err := s.approvalRepo.ListApprovals(ctx, opts)
	if err != nil {
		return nil, err
	}

	responses := dto.ToApprovalResponses(approvals)
	// Actionability depends on the whole application, so resolve each
	// referenced application once.
	type appContext struct {
		status   domain.ApplicationStatus
		steps    domain.FlowConfig
		siblings []domain.Approval
	}
	cache := make(map[string]*appContext)
	for i := range approvals {
		appID := approvals[i].ApplicationID
		actx, ok := cache[appID]
		if !ok {
			app, err := s.appRepo.FindApplicationByID(ctx, appID)
			if err != nil {
				return nil, err
			}
			siblings, err := s.approvalRepo.FindApprovalsByApplicationID(ctx, appID)
			if err != nil {
				return nil, err
			}
			actx = &appContext{status: app.Status, siblings: siblings}
			if app.ApprovalFlowID != nil {
				flow, err := s.flowRepo.FindFlowByID(ctx, *app.ApprovalFlowID)
				if err != nil {
					return nil, err
				}
				actx.steps = flow.Steps
			}
			cache[appID] = actx
		}
		if actx.steps != nil {
			responses[i].Actionable = domain.RowActionable(actx.steps, actx.siblings, &approvals[i], actx.status)
		}
	}

	return &dto.ListApprovalsResponse{
		Approvals: responses,
		NextToken: nextToken,
	}, nil
}
