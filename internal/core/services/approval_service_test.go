package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/core/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockApprovalRepo *MockApprovalRepository
	mockAppRepo      *MockApplicationRepository
	mockFlowRepo     *MockFlowRepository
	mockTelemetry    *MockTelemetryRecorder
	service          portssvc.ApprovalSvcFacade
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.mockAppRepo = new(MockApplicationRepository)
	suite.mockFlowRepo = new(MockFlowRepository)
	suite.mockTelemetry = new(MockTelemetryRecorder)

	suite.mockTelemetry.On("RecordEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()

	suite.service = services.NewApprovalService(suite.mockApprovalRepo, suite.mockAppRepo, suite.mockFlowRepo, suite.mockTelemetry)
}

func pendingApproval(approverID string) *domain.Approval {
	return &domain.Approval{
		ApprovalID:    uuid.NewString(),
		ApplicationID: uuid.NewString(),
		ApproverID:    approverID,
		Status:        domain.ApprovalPending,
	}
}

func (suite *ApprovalServiceTestSuite) TestApprove_Success() {
	ctx := context.Background()
	approverID := uuid.NewString()
	approval := pendingApproval(approverID)
	expected := &domain.ApprovalActionResult{
		Approval:          *approval,
		ApplicationStatus: domain.StatusApproved,
		StatusChanged:     true,
	}

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approval.ApprovalID).Return(approval, nil).Once()
	suite.mockApprovalRepo.On("TransitionApproval", ctx, approval.ApprovalID, domain.ApprovalApproved, (*string)(nil), approverID, mock.AnythingOfType("time.Time")).Return(expected, nil).Once()

	result, err := suite.service.Approve(ctx, approval.ApprovalID, nil, approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.ApplicationStatus)
	suite.True(result.StatusChanged)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_NotTheApprover() {
	ctx := context.Background()
	approval := pendingApproval(uuid.NewString())

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approval.ApprovalID).Return(approval, nil).Once()

	_, err := suite.service.Approve(ctx, approval.ApprovalID, nil, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "TransitionApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AlreadyDecided() {
	ctx := context.Background()
	approverID := uuid.NewString()
	approval := pendingApproval(approverID)
	approval.Status = domain.ApprovalApproved

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approval.ApprovalID).Return(approval, nil).Once()

	_, err := suite.service.Approve(ctx, approval.ApprovalID, nil, approverID)

	// Conflict is reported before authorization so a stale actor learns the
	// row was decided, not that they are forbidden.
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ApprovalServiceTestSuite) TestReject_RequiresComment() {
	ctx := context.Background()

	_, err := suite.service.Reject(ctx, uuid.NewString(), "   ", uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "FindApprovalByID", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestReject_Success() {
	ctx := context.Background()
	approverID := uuid.NewString()
	approval := pendingApproval(approverID)
	comment := "missing receipts"
	expected := &domain.ApprovalActionResult{
		Approval:          *approval,
		ApplicationStatus: domain.StatusRejected,
		StatusChanged:     true,
	}

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, approval.ApprovalID).Return(approval, nil).Once()
	suite.mockApprovalRepo.On("TransitionApproval", ctx, approval.ApprovalID, domain.ApprovalRejected, &comment, approverID, mock.AnythingOfType("time.Time")).Return(expected, nil).Once()

	result, err := suite.service.Reject(ctx, approval.ApprovalID, comment, approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, result.ApplicationStatus)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestBulkApprove_CollectsBusinessFailures() {
	ctx := context.Background()
	approverID := uuid.NewString()

	okRow := pendingApproval(approverID)
	decidedRow := pendingApproval(approverID)
	decidedRow.Status = domain.ApprovalSkipped
	foreignRow := pendingApproval(uuid.NewString())
	missingID := uuid.NewString()

	okResult := &domain.ApprovalActionResult{Approval: *okRow, ApplicationStatus: domain.StatusUnderReview}

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, okRow.ApprovalID).Return(okRow, nil).Once()
	suite.mockApprovalRepo.On("TransitionApproval", ctx, okRow.ApprovalID, domain.ApprovalApproved, (*string)(nil), approverID, mock.AnythingOfType("time.Time")).Return(okResult, nil).Once()
	suite.mockApprovalRepo.On("FindApprovalByID", ctx, decidedRow.ApprovalID).Return(decidedRow, nil).Once()
	suite.mockApprovalRepo.On("FindApprovalByID", ctx, foreignRow.ApprovalID).Return(foreignRow, nil).Once()
	suite.mockApprovalRepo.On("FindApprovalByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.BulkApprove(ctx, []string{okRow.ApprovalID, decidedRow.ApprovalID, foreignRow.ApprovalID, missingID}, nil, approverID)

	suite.Require().NoError(err)
	suite.Equal(4, result.TotalCount)
	suite.Equal(1, result.SuccessCount)
	suite.Equal(3, result.ErrorCount)
	suite.Require().Len(result.Errors, 3)
	suite.Contains(result.Errors[0], "already processed")
	suite.Contains(result.Errors[1], "not authorized")
	suite.Contains(result.Errors[2], "not found")
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestBulkApprove_UnexpectedErrorAborts() {
	ctx := context.Background()
	approverID := uuid.NewString()
	row := pendingApproval(approverID)

	suite.mockApprovalRepo.On("FindApprovalByID", ctx, row.ApprovalID).Return(nil, assert.AnError).Once()

	result, err := suite.service.BulkApprove(ctx, []string{row.ApprovalID}, nil, approverID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ApprovalServiceTestSuite) TestBulkReject_RequiresComment() {
	ctx := context.Background()

	_, err := suite.service.BulkReject(ctx, []string{uuid.NewString()}, "", uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApprovalServiceTestSuite) TestApproveAll_NothingPending() {
	ctx := context.Background()
	approverID := uuid.NewString()

	suite.mockApprovalRepo.On("ListApprovals", ctx, mock.AnythingOfType("repositories.ApprovalQueryOptions")).Return([]domain.Approval{}, nil, nil).Once()

	result, err := suite.service.ApproveAll(ctx, nil, approverID)

	suite.Require().NoError(err)
	suite.Equal(0, result.TotalCount)
	suite.Equal(0, result.SuccessCount)
	suite.Equal(0, result.ErrorCount)
	suite.Empty(result.Errors)
}

func (suite *ApprovalServiceTestSuite) TestApproveAll_WalksPagination() {
	ctx := context.Background()
	approverID := uuid.NewString()
	first := pendingApproval(approverID)
	second := pendingApproval(approverID)
	token := "next-page"

	suite.mockApprovalRepo.On("ListApprovals", ctx, mock.MatchedBy(func(opts portsrepo.ApprovalQueryOptions) bool {
		return opts.NextToken == nil
	})).Return([]domain.Approval{*first}, &token, nil).Once()
	suite.mockApprovalRepo.On("ListApprovals", ctx, mock.MatchedBy(func(opts portsrepo.ApprovalQueryOptions) bool {
		return opts.NextToken != nil && *opts.NextToken == token
	})).Return([]domain.Approval{*second}, nil, nil).Once()

	for _, row := range []*domain.Approval{first, second} {
		r := row
		suite.mockApprovalRepo.On("FindApprovalByID", ctx, r.ApprovalID).Return(r, nil).Once()
		suite.mockApprovalRepo.On("TransitionApproval", ctx, r.ApprovalID, domain.ApprovalApproved, (*string)(nil), approverID, mock.AnythingOfType("time.Time")).
			Return(&domain.ApprovalActionResult{Approval: *r, ApplicationStatus: domain.StatusUnderReview}, nil).Once()
	}

	result, err := suite.service.ApproveAll(ctx, nil, approverID)

	suite.Require().NoError(err)
	suite.Equal(2, result.TotalCount)
	suite.Equal(2, result.SuccessCount)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestListMyPendingApprovals_FlagsActionability() {
	ctx := context.Background()
	approverID := uuid.NewString()
	appID := uuid.NewString()
	flowID := uuid.NewString()

	flow := &domain.ApprovalFlow{
		FlowID: flowID,
		Steps: domain.FlowConfig{
			{Type: domain.StepReview, Approvers: []string{approverID}, ApprovalMode: domain.ModeAll},
			{Type: domain.StepApprove, Approvers: []string{approverID}, ApprovalMode: domain.ModeAll},
		},
	}
	currentStep := domain.Approval{
		ApprovalID:    uuid.NewString(),
		ApplicationID: appID,
		ApproverID:    approverID,
		StepNumber:    0,
		Status:        domain.ApprovalPending,
	}
	futureStep := domain.Approval{
		ApprovalID:    uuid.NewString(),
		ApplicationID: appID,
		ApproverID:    approverID,
		StepNumber:    1,
		Status:        domain.ApprovalPending,
	}
	siblings := []domain.Approval{currentStep, futureStep}

	suite.mockApprovalRepo.On("ListApprovals", ctx, mock.AnythingOfType("repositories.ApprovalQueryOptions")).Return(siblings, nil, nil).Once()
	suite.mockAppRepo.On("FindApplicationByID", ctx, appID).Return(&domain.Application{
		ApplicationID:  appID,
		Status:         domain.StatusUnderReview,
		ApprovalFlowID: &flowID,
	}, nil).Once()
	suite.mockApprovalRepo.On("FindApprovalsByApplicationID", ctx, appID).Return(siblings, nil).Once()
	suite.mockFlowRepo.On("FindFlowByID", ctx, flowID).Return(flow, nil).Once()

	resp, err := suite.service.ListMyPendingApprovals(ctx, approverID, dto.ListApprovalsParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Approvals, 2)
	suite.True(resp.Approvals[0].Actionable, "current step row must be actionable")
	suite.False(resp.Approvals[1].Actionable, "future step row must not be actionable")
	suite.mockAppRepo.AssertNumberOfCalls(suite.T(), "FindApplicationByID", 1)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
