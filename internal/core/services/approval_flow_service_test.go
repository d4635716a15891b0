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
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/core/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

type ApprovalFlowServiceTestSuite struct {
	suite.Suite
	mockFlowRepo     *MockFlowRepository
	mockApprovalRepo *MockApprovalRepository
	service          portssvc.ApprovalFlowSvcFacade
}

func (suite *ApprovalFlowServiceTestSuite) SetupTest() {
	suite.mockFlowRepo = new(MockFlowRepository)
	suite.mockApprovalRepo = new(MockApprovalRepository)
	suite.service = services.NewApprovalFlowService(suite.mockFlowRepo, suite.mockApprovalRepo)
}

func (suite *ApprovalFlowServiceTestSuite) TestFindBestMatch_ExactTypeWins() {
	ctx := context.Background()
	orgID := uuid.NewString()
	expected := &domain.ApprovalFlow{FlowID: uuid.NewString(), ApplicationType: domain.TypeExpense}

	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypeExpense).Return(expected, nil).Once()

	flow, err := suite.service.FindBestMatch(ctx, orgID, domain.TypeExpense)

	suite.Require().NoError(err)
	suite.Equal(expected.FlowID, flow.FlowID)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestFindBestMatch_FallsBackToOther() {
	ctx := context.Background()
	orgID := uuid.NewString()
	fallback := &domain.ApprovalFlow{FlowID: uuid.NewString(), ApplicationType: domain.TypeOther}

	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypeLeave).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypeOther).Return(fallback, nil).Once()

	flow, err := suite.service.FindBestMatch(ctx, orgID, domain.TypeLeave)

	suite.Require().NoError(err)
	suite.Equal(fallback.FlowID, flow.FlowID)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestFindBestMatch_NoFlowConfigured() {
	ctx := context.Background()
	orgID := uuid.NewString()

	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypePurchase).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypeOther).Return(nil, apperrors.ErrNotFound).Once()

	flow, err := suite.service.FindBestMatch(ctx, orgID, domain.TypePurchase)

	suite.Require().Error(err)
	suite.Nil(flow)
	suite.ErrorIs(err, apperrors.ErrNoFlowConfigured)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestFindBestMatch_OtherTypeDoesNotDoubleQuery() {
	ctx := context.Background()
	orgID := uuid.NewString()

	// The wildcard type is its own fallback; a second lookup would be the
	// same query again.
	suite.mockFlowRepo.On("FindActiveFlow", ctx, orgID, domain.TypeOther).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.FindBestMatch(ctx, orgID, domain.TypeOther)

	suite.ErrorIs(err, apperrors.ErrNoFlowConfigured)
	suite.mockFlowRepo.AssertExpectations(suite.T())
	suite.mockFlowRepo.AssertNumberOfCalls(suite.T(), "FindActiveFlow", 1)
}

func (suite *ApprovalFlowServiceTestSuite) TestCreateFlow_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateFlowRequest{
		Name:            "Expense approval",
		ApplicationType: "expense",
		OrganizationID:  uuid.NewString(),
		Steps: []dto.FlowStepRequest{
			{Type: "review", Approvers: []string{"u1", "u2"}, ApprovalMode: "any_one"},
			{Type: "approve", Approvers: []string{"u3"}, ApprovalMode: "all"},
		},
	}

	suite.mockFlowRepo.On("SaveFlow", ctx, mock.AnythingOfType("domain.ApprovalFlow")).Return(nil).Once()

	flow, err := suite.service.CreateFlow(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(flow)
	suite.NotEmpty(flow.FlowID)
	suite.Equal(2, flow.StepCount)
	suite.True(flow.IsActive)
	suite.Equal(domain.ModeAnyOne, flow.Steps[0].ApprovalMode)
	suite.Equal(creatorUserID, flow.CreatedBy)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestCreateFlow_StepWithoutApprovers() {
	ctx := context.Background()
	req := dto.CreateFlowRequest{
		Name:            "Broken",
		ApplicationType: "leave",
		OrganizationID:  uuid.NewString(),
		Steps: []dto.FlowStepRequest{
			{Type: "review", Approvers: nil, ApprovalMode: "all"},
		},
	}

	flow, err := suite.service.CreateFlow(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(flow)
	suite.ErrorIs(err, services.ErrFlowStepInvalid)
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "SaveFlow", mock.Anything, mock.Anything)
}

func (suite *ApprovalFlowServiceTestSuite) TestCreateFlow_DuplicateApproverInStep() {
	ctx := context.Background()
	req := dto.CreateFlowRequest{
		Name:            "Broken",
		ApplicationType: "leave",
		OrganizationID:  uuid.NewString(),
		Steps: []dto.FlowStepRequest{
			{Type: "review", Approvers: []string{"u1", "u1"}, ApprovalMode: "all"},
		},
	}

	_, err := suite.service.CreateFlow(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrFlowStepInvalid)
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "SaveFlow", mock.Anything, mock.Anything)
}

func (suite *ApprovalFlowServiceTestSuite) TestCreateApprovals_MaterializesEveryRow() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	app := domain.Application{ApplicationID: uuid.NewString()}
	flow := domain.ApprovalFlow{
		FlowID: uuid.NewString(),
		Steps: domain.FlowConfig{
			{Type: domain.StepReview, Approvers: []string{"u1", "u2"}, ApprovalMode: domain.ModeAnyOne},
			{Type: domain.StepApprove, Approvers: []string{"u3"}, ApprovalMode: domain.ModeAll},
		},
	}

	suite.mockApprovalRepo.On("SaveApprovals", ctx, mock.AnythingOfType("[]domain.Approval")).Return(nil).Once()

	approvals, err := suite.service.CreateApprovals(ctx, app, flow, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().Len(approvals, 3)
	for _, a := range approvals {
		suite.Equal(app.ApplicationID, a.ApplicationID)
		suite.Equal(flow.FlowID, a.ApprovalFlowID)
		suite.Equal(domain.ApprovalPending, a.Status)
		suite.NotEmpty(a.ApprovalID)
	}
	// Step numbers are 0-based and match the flow config index.
	suite.Equal(0, approvals[0].StepNumber)
	suite.Equal(0, approvals[1].StepNumber)
	suite.Equal(1, approvals[2].StepNumber)
	suite.Equal("u3", approvals[2].ApproverID)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestUpdateFlow_MetadataOnly() {
	ctx := context.Background()
	userID := uuid.NewString()
	flow := &domain.ApprovalFlow{
		FlowID:    uuid.NewString(),
		Name:      "Old name",
		StepCount: 1,
		Steps: domain.FlowConfig{
			{Type: domain.StepReview, Approvers: []string{"u1"}, ApprovalMode: domain.ModeAll},
		},
	}

	suite.mockFlowRepo.On("FindFlowByID", ctx, flow.FlowID).Return(flow, nil).Once()
	suite.mockFlowRepo.On("UpdateFlow", ctx, mock.AnythingOfType("domain.ApprovalFlow")).Return(nil).Once()

	req := dto.UpdateFlowRequest{Name: stringPtr("New name")}
	updated, err := suite.service.UpdateFlow(ctx, flow.FlowID, req, userID)

	suite.Require().NoError(err)
	suite.Equal("New name", updated.Name)
	suite.Equal(userID, updated.LastUpdatedBy)
	// Metadata updates do not touch the in-use check.
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "HasApprovals", mock.Anything, mock.Anything)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestUpdateFlow_StepsLockedOnceInUse() {
	ctx := context.Background()
	flow := &domain.ApprovalFlow{
		FlowID:    uuid.NewString(),
		StepCount: 1,
		Steps: domain.FlowConfig{
			{Type: domain.StepReview, Approvers: []string{"u1"}, ApprovalMode: domain.ModeAll},
		},
	}

	suite.mockFlowRepo.On("FindFlowByID", ctx, flow.FlowID).Return(flow, nil).Once()
	suite.mockFlowRepo.On("HasApprovals", ctx, flow.FlowID).Return(true, nil).Once()

	req := dto.UpdateFlowRequest{
		Steps: []dto.FlowStepRequest{
			{Type: "review", Approvers: []string{"u2"}, ApprovalMode: "all"},
		},
	}
	_, err := suite.service.UpdateFlow(ctx, flow.FlowID, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrFlowInUse)
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "UpdateFlow", mock.Anything, mock.Anything)
}

func (suite *ApprovalFlowServiceTestSuite) TestUpdateFlow_StepsReplacedWhileUnused() {
	ctx := context.Background()
	flow := &domain.ApprovalFlow{
		FlowID:    uuid.NewString(),
		StepCount: 1,
		Steps: domain.FlowConfig{
			{Type: domain.StepReview, Approvers: []string{"u1"}, ApprovalMode: domain.ModeAll},
		},
	}

	suite.mockFlowRepo.On("FindFlowByID", ctx, flow.FlowID).Return(flow, nil).Once()
	suite.mockFlowRepo.On("HasApprovals", ctx, flow.FlowID).Return(false, nil).Once()
	suite.mockFlowRepo.On("UpdateFlow", ctx, mock.AnythingOfType("domain.ApprovalFlow")).Return(nil).Once()

	req := dto.UpdateFlowRequest{
		Steps: []dto.FlowStepRequest{
			{Type: "review", Approvers: []string{"u2", "u3"}, ApprovalMode: "any_one"},
			{Type: "approve", Approvers: []string{"u4"}, ApprovalMode: "all"},
		},
	}
	updated, err := suite.service.UpdateFlow(ctx, flow.FlowID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(2, updated.StepCount)
	suite.Equal(domain.ModeAnyOne, updated.Steps[0].ApprovalMode)
	suite.mockFlowRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalFlowServiceTestSuite) TestDeactivateFlow_UnknownFlow() {
	ctx := context.Background()
	flowID := uuid.NewString()

	suite.mockFlowRepo.On("FindFlowByID", ctx, flowID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateFlow(ctx, flowID, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "DeactivateFlow", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprovalFlowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalFlowServiceTestSuite))
}

func TestTotalApprovers(t *testing.T) {
	flow := domain.ApprovalFlow{
		Steps: domain.FlowConfig{
			{Approvers: []string{"a", "b"}},
			{Approvers: []string{"c"}},
		},
	}
	assert.Equal(t, 3, flow.TotalApprovers())
}
