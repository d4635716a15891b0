package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

var (
	ErrFlowInUse       = errors.New("flow is referenced by existing approvals")
	ErrFlowStepInvalid = errors.New("flow step configuration is invalid")
)

// approvalFlowService resolves and manages approval flow configurations.
type approvalFlowService struct {
	flowRepo     portsrepo.ApprovalFlowRepositoryFacade
	approvalRepo portsrepo.ApprovalRepositoryFacade
}

// NewApprovalFlowService creates a new ApprovalFlowService.
func NewApprovalFlowService(flowRepo portsrepo.ApprovalFlowRepositoryFacade, approvalRepo portsrepo.ApprovalRepositoryFacade) portssvc.ApprovalFlowSvcFacade {
	return &approvalFlowService{
		flowRepo:     flowRepo,
		approvalRepo: approvalRepo,
	}
}

// Ensure approvalFlowService implements the portssvc.ApprovalFlowSvcFacade interface
var _ portssvc.ApprovalFlowSvcFacade = (*approvalFlowService)(nil)

// GetFlowByID retrieves a specific flow by its ID.
func (s *approvalFlowService) GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	return s.flowRepo.FindFlowByID(ctx, flowID)
}

// ListFlows retrieves all flows of an organization.
func (s *approvalFlowService) ListFlows(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error) {
	return s.flowRepo.ListFlowsByOrganization(ctx, organizationID)
}

// FindBestMatch resolves the flow governing a submission. An active flow for
// the exact application type wins; the organization's flow for the "other"
// type is the fallback. Inactive flows never match.
func (s *approvalFlowService) FindBestMatch(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	flow, err := s.flowRepo.FindActiveFlow(ctx, organizationID, applicationType)
	if err == nil {
		return flow, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve flow for type %s: %w", applicationType, err)
	}

	if applicationType != domain.TypeOther {
		flow, err = s.flowRepo.FindActiveFlow(ctx, organizationID, domain.TypeOther)
		if err == nil {
			logger.Info("Falling back to generic flow",
				slog.String("organization_id", organizationID),
				slog.String("application_type", string(applicationType)),
				slog.String("flow_id", flow.FlowID))
			return flow, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve fallback flow: %w", err)
		}
	}

	return nil, apperrors.ErrNoFlowConfigured
}

// buildSteps validates and converts step requests into a flow configuration.
func buildSteps(stepReqs []dto.FlowStepRequest) (domain.FlowConfig, error) {
	steps := make(domain.FlowConfig, len(stepReqs))
	for i, stepReq := range stepReqs {
		if len(stepReq.Approvers) == 0 {
			return nil, fmt.Errorf("%w: step %d has no approvers", ErrFlowStepInvalid, i+1)
		}
		seen := make(map[string]bool, len(stepReq.Approvers))
		for _, approverID := range stepReq.Approvers {
			if seen[approverID] {
				return nil, fmt.Errorf("%w: step %d lists approver %s twice", ErrFlowStepInvalid, i+1, approverID)
			}
			seen[approverID] = true
		}
		steps[i] = domain.FlowStep{
			Type:         domain.StepType(stepReq.Type),
			Approvers:    stepReq.Approvers,
			ApprovalMode: domain.ApprovalMode(stepReq.ApprovalMode),
		}
	}
	return steps, nil
}

// CreateFlow persists a new approval flow after validating its steps.
func (s *approvalFlowService) CreateFlow(ctx context.Context, req dto.CreateFlowRequest, creatorUserID string) (*domain.ApprovalFlow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	steps, err := buildSteps(req.Steps)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flow := domain.ApprovalFlow{
		FlowID:          uuid.NewString(),
		Name:            req.Name,
		Description:     req.Description,
		ApplicationType: domain.ApplicationType(req.ApplicationType),
		OrganizationID:  req.OrganizationID,
		StepCount:       len(steps),
		Steps:           steps,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.flowRepo.SaveFlow(ctx, flow); err != nil {
		logger.Error("Failed to save flow", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	logger.Info("Approval flow created",
		slog.String("flow_id", flow.FlowID),
		slog.String("application_type", string(flow.ApplicationType)),
		slog.Int("step_count", flow.StepCount))
	return &flow, nil
}

// UpdateFlow updates a flow's metadata. Step configuration is locked the
// moment any approval references the flow: approvals already materialized
// from it must keep matching what the approvers saw.
func (s *approvalFlowService) UpdateFlow(ctx context.Context, flowID string, req dto.UpdateFlowRequest, requestingUserID string) (*domain.ApprovalFlow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	flow, err := s.flowRepo.FindFlowByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if req.Steps != nil {
		inUse, err := s.flowRepo.HasApprovals(ctx, flowID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, fmt.Errorf("%w: steps cannot change anymore", ErrFlowInUse)
		}
		steps, err := buildSteps(req.Steps)
		if err != nil {
			return nil, err
		}
		flow.Steps = steps
		flow.StepCount = len(steps)
	}
	if req.Name != nil {
		flow.Name = *req.Name
	}
	if req.Description != nil {
		flow.Description = *req.Description
	}

	flow.LastUpdatedAt = time.Now().UTC()
	flow.LastUpdatedBy = requestingUserID
	if err := s.flowRepo.UpdateFlow(ctx, *flow); err != nil {
		logger.Error("Failed to update flow",
			slog.String("flow_id", flowID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update flow: %w", err)
	}
	return flow, nil
}

// DeactivateFlow marks a flow inactive. Flows that already govern approvals
// cannot be mutated, only retired this way.
func (s *approvalFlowService) DeactivateFlow(ctx context.Context, flowID string, requestingUserID string) error {
	if _, err := s.flowRepo.FindFlowByID(ctx, flowID); err != nil {
		return err
	}
	return s.flowRepo.DeactivateFlow(ctx, flowID, requestingUserID)
}

// CreateApprovals materializes every approval row of a submitted application
// up front, one per approver per step. Rows beyond the first step stay
// pending but are not actionable until their step becomes current.
func (s *approvalFlowService) CreateApprovals(ctx context.Context, application domain.Application, flow domain.ApprovalFlow, creatorUserID string) ([]domain.Approval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	approvals := make([]domain.Approval, 0, flow.TotalApprovers())
	for stepIdx, step := range flow.Steps {
		for _, approverID := range step.Approvers {
			approvals = append(approvals, domain.Approval{
				ApprovalID:     uuid.NewString(),
				ApplicationID:  application.ApplicationID,
				ApproverID:     approverID,
				ApprovalFlowID: flow.FlowID,
				StepNumber:     stepIdx,
				StepType:       step.Type,
				Status:         domain.ApprovalPending,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     creatorUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: creatorUserID,
				},
			})
		}
	}

	if err := s.approvalRepo.SaveApprovals(ctx, approvals); err != nil {
		logger.Error("Failed to save approvals",
			slog.String("application_id", application.ApplicationID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save approvals: %w", err)
	}

	logger.Info("Approval rows created",
		slog.String("application_id", application.ApplicationID),
		slog.String("flow_id", flow.FlowID),
		slog.Int("row_count", len(approvals)))
	return approvals, nil
}
