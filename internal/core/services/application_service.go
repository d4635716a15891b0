package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

var (
	ErrAmountLocked   = errors.New("amount cannot be changed while under review")
	ErrAmountInvalid  = errors.New("amount must be greater than zero")
	ErrAmountRequired = errors.New("amount is required for expense applications")
	ErrDueBeforeStart = errors.New("due date must not precede the requested date")
	ErrDueEqualsStart = errors.New("due date must be after the requested date")
	ErrDueInPast      = errors.New("due date must not be before today")
)

const defaultListLimit = 20

// applicationService provides core application lifecycle operations.
type applicationService struct {
	appRepo      portsrepo.ApplicationRepositoryFacade
	approvalRepo portsrepo.ApprovalReader
	userRepo     portsrepo.UserReader
	flowSvc      portssvc.ApprovalFlowSvcFacade
	notifier     portssvc.Notifier
	telemetry    portssvc.TelemetryRecorder
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(appRepo portsrepo.ApplicationRepositoryFacade, approvalRepo portsrepo.ApprovalReader, userRepo portsrepo.UserReader, flowSvc portssvc.ApprovalFlowSvcFacade, notifier portssvc.Notifier, telemetry portssvc.TelemetryRecorder) portssvc.ApplicationSvcFacade {
	return &applicationService{
		appRepo:      appRepo,
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		flowSvc:      flowSvc,
		notifier:     notifier,
		telemetry:    telemetry,
	}
}

// Ensure applicationService implements the portssvc.ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

func validateAmount(amount *decimal.Decimal) error {
	if amount != nil && amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrAmountInvalid, amount.String())
	}
	return nil
}

func validateDates(requested *time.Time, due *time.Time) error {
	if requested != nil && due != nil && due.Before(*requested) {
		return ErrDueBeforeStart
	}
	return nil
}

// validateCreateDates requires the due date, when both dates are given, to
// fall strictly after the requested date.
func validateCreateDates(requested *time.Time, due *time.Time) error {
	if requested == nil || due == nil {
		return nil
	}
	if due.Before(*requested) {
		return ErrDueBeforeStart
	}
	if due.Equal(*requested) {
		return ErrDueEqualsStart
	}
	return nil
}

// validateDueNotPast rejects a due date before the start of today (UTC).
func validateDueNotPast(due *time.Time) error {
	if due != nil && due.Before(time.Now().UTC().Truncate(24*time.Hour)) {
		return ErrDueInPast
	}
	return nil
}

// authorizeRead checks whether the user may see the application: the
// applicant, an admin, or a user assigned an approval row on it.
func (s *applicationService) authorizeRead(ctx context.Context, app *domain.Application, requestingUserID string) error {
	if app.ApplicantID == requestingUserID {
		return nil
	}
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return nil
	}
	approvals, err := s.approvalRepo.FindApprovalsByApplicationID(ctx, app.ApplicationID)
	if err != nil {
		return err
	}
	for _, a := range approvals {
		if a.ApproverID == requestingUserID {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// CreateApplication persists a new application. When an active flow matches
// the applicant's organization and type it attaches immediately and the
// application enters review; otherwise it stays draft until submitted.
func (s *applicationService) CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, creatorUserID string) (*domain.Application, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if domain.ApplicationType(req.Type) == domain.TypeExpense && req.Amount == nil {
		return nil, ErrAmountRequired
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := validateCreateDates(req.RequestedDate, req.DueDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := domain.Application{
		ApplicationID: uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Type:          domain.ApplicationType(req.Type),
		Priority:      domain.Priority(req.Priority),
		Amount:        req.Amount,
		RequestedDate: req.RequestedDate,
		DueDate:       req.DueDate,
		Status:        domain.StatusDraft,
		ApplicantID:   creatorUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.appRepo.SaveApplication(ctx, app); err != nil {
		logger.Error("Failed to save application", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save application: %w", err)
	}

	logger.Info("Application created",
		slog.String("application_id", app.ApplicationID),
		slog.String("type", string(app.Type)))
	s.telemetry.RecordEvent(ctx, creatorUserID, "application_created", map[string]any{
		"application_id": app.ApplicationID,
		"type":           string(app.Type),
		"priority":       string(app.Priority),
	})

	if err := s.attachFlow(ctx, &app, creatorUserID); err != nil {
		if !errors.Is(err, apperrors.ErrNoFlowConfigured) {
			return nil, err
		}
		logger.Info("No active flow at creation, application stays draft",
			slog.String("application_id", app.ApplicationID))
	}
	return &app, nil
}

// GetApplicationByID retrieves a specific application by its ID.
func (s *applicationService) GetApplicationByID(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, app, requestingUserID); err != nil {
		return nil, err
	}
	return app, nil
}

// GetApplicationDetail retrieves an application with its approval rows,
// flagging which rows can be acted on right now.
func (s *applicationService) GetApplicationDetail(ctx context.Context, applicationID string, requestingUserID string) (*dto.ApplicationDetailResponse, error) {
	app, err := s.GetApplicationByID(ctx, applicationID, requestingUserID)
	if err != nil {
		return nil, err
	}

	approvals, err := s.approvalRepo.FindApprovalsByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	responses := dto.ToApprovalResponses(approvals)
	if app.ApprovalFlowID != nil && len(approvals) > 0 {
		flow, err := s.flowSvc.GetFlowByID(ctx, *app.ApprovalFlowID)
		if err != nil {
			return nil, err
		}
		for i := range approvals {
			responses[i].Actionable = domain.RowActionable(flow.Steps, approvals, &approvals[i], app.Status)
		}
	}

	return &dto.ApplicationDetailResponse{
		Application: dto.ToApplicationResponse(app),
		Approvals:   responses,
	}, nil
}

// ListApplications retrieves a paginated list of applications. Users other
// than admins only ever see their own.
func (s *applicationService) ListApplications(ctx context.Context, requestingUserID string, params dto.ListApplicationsParams) (*dto.ListApplicationsResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	opts := portsrepo.ApplicationQueryOptions{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if !user.IsAdmin() {
		opts.ApplicantID = &requestingUserID
	} else if params.ApplicantID != nil {
		opts.ApplicantID = params.ApplicantID
	}
	if params.Status != nil {
		status := domain.ApplicationStatus(*params.Status)
		opts.Status = &status
	}
	if params.Type != nil {
		appType := domain.ApplicationType(*params.Type)
		opts.Type = &appType
	}

	apps, nextToken, err := s.appRepo.ListApplications(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &dto.ListApplicationsResponse{
		Applications: dto.ToApplicationResponses(apps),
		NextToken:    nextToken,
	}, nil
}

// UpdateApplication updates an editable application. While under review the
// amount is locked to what the approvers are looking at.
func (s *applicationService) UpdateApplication(ctx context.Context, applicationID string, req dto.UpdateApplicationRequest, requestingUserID string) (*domain.Application, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	if !app.CanBeEdited() {
		return nil, fmt.Errorf("%w: application is %s", domain.ErrInvalidTransition, app.Status)
	}

	if req.Amount != nil {
		if app.Status == domain.StatusUnderReview && (app.Amount == nil || !req.Amount.Equal(*app.Amount)) {
			return nil, ErrAmountLocked
		}
		if err := validateAmount(req.Amount); err != nil {
			return nil, err
		}
		app.Amount = req.Amount
	}
	if req.Title != nil {
		app.Title = *req.Title
	}
	if req.Description != nil {
		app.Description = *req.Description
	}
	if req.Priority != nil {
		app.Priority = domain.Priority(*req.Priority)
	}
	if req.RequestedDate != nil {
		app.RequestedDate = req.RequestedDate
	}
	if req.DueDate != nil {
		if err := validateDueNotPast(req.DueDate); err != nil {
			return nil, err
		}
		app.DueDate = req.DueDate
	}
	if err := validateDates(app.RequestedDate, app.DueDate); err != nil {
		return nil, err
	}

	app.LastUpdatedAt = time.Now().UTC()
	app.LastUpdatedBy = requestingUserID
	if err := s.appRepo.UpdateApplication(ctx, *app); err != nil {
		logger.Error("Failed to update application",
			slog.String("application_id", applicationID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return app, nil
}

// attachFlow resolves the governing flow from the applicant's organization,
// moves the draft into review and creates every approval row up front.
// Returns apperrors.ErrNoFlowConfigured when the applicant has no
// organization or no active flow matches.
func (s *applicationService) attachFlow(ctx context.Context, app *domain.Application, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	applicant, err := s.userRepo.FindUserByID(ctx, app.ApplicantID)
	if err != nil {
		return err
	}
	if applicant.OrganizationID == nil {
		return apperrors.ErrNoFlowConfigured
	}

	flow, err := s.flowSvc.FindBestMatch(ctx, *applicant.OrganizationID, app.Type)
	if err != nil {
		return err
	}

	// The guarded update is the serialization point: a concurrent attach of
	// the same draft loses here before any approval row exists.
	if err := s.appRepo.UpdateApplicationStatus(ctx, app.ApplicationID, domain.StatusDraft, domain.StatusUnderReview, &flow.FlowID, requestingUserID); err != nil {
		return err
	}
	app.Status = domain.StatusUnderReview
	app.ApprovalFlowID = &flow.FlowID

	approvals, err := s.flowSvc.CreateApprovals(ctx, *app, *flow, requestingUserID)
	if err != nil {
		return err
	}

	if len(flow.Steps) > 0 {
		s.notifier.ApplicationSubmitted(ctx, *app, flow.Steps[0].Approvers)
	}

	logger.Info("Application entered review",
		slog.String("application_id", app.ApplicationID),
		slog.String("flow_id", flow.FlowID),
		slog.Int("approval_rows", len(approvals)))
	s.telemetry.RecordEvent(ctx, requestingUserID, "application_submitted", map[string]any{
		"application_id": app.ApplicationID,
		"flow_id":        flow.FlowID,
		"step_count":     flow.StepCount,
	})
	return nil
}

// SubmitApplication moves a draft into review explicitly. Unlike creation,
// a missing flow here is an error the applicant needs to hear about.
func (s *applicationService) SubmitApplication(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	if err := app.Submit(); err != nil {
		return nil, err
	}

	if err := s.attachFlow(ctx, app, requestingUserID); err != nil {
		return nil, err
	}
	return app, nil
}

// CancelApplication cancels a draft or under-review application. Pending
// approval rows are left in place; decision paths re-check the application
// status and refuse them.
func (s *applicationService) CancelApplication(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != requestingUserID {
		user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
	}

	from := app.Status
	if err := app.Cancel(); err != nil {
		return nil, err
	}
	if err := s.appRepo.UpdateApplicationStatus(ctx, app.ApplicationID, from, domain.StatusCancelled, nil, requestingUserID); err != nil {
		return nil, err
	}

	logger.Info("Application cancelled", slog.String("application_id", app.ApplicationID))
	s.telemetry.RecordEvent(ctx, requestingUserID, "application_cancelled", map[string]any{
		"application_id": app.ApplicationID,
		"from_status":    string(from),
	})
	return app, nil
}

// DeleteApplication permanently removes a draft application.
func (s *applicationService) DeleteApplication(ctx context.Context, applicationID string, requestingUserID string) error {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ApplicantID != requestingUserID {
		return apperrors.ErrForbidden
	}
	if !app.CanBeDeleted() {
		return fmt.Errorf("%w: only drafts can be deleted, application is %s", domain.ErrInvalidTransition, app.Status)
	}
	return s.appRepo.DeleteApplication(ctx, applicationID)
}
