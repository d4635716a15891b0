package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// Shared hand-written mocks for the repository and service ports exercised by
// the service tests.

// MockApplicationRepository is a mock type for the ApplicationRepositoryFacade interface
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListApplications(ctx context.Context, opts portsrepo.ApplicationQueryOptions) ([]domain.Application, *string, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Application), token, args.Error(2)
}

func (m *MockApplicationRepository) CountApplicationsByStatus(ctx context.Context, applicantID *string) (map[domain.ApplicationStatus]int64, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ApplicationStatus]int64), args.Error(1)
}

func (m *MockApplicationRepository) SaveApplication(ctx context.Context, application domain.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) UpdateApplication(ctx context.Context, application domain.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) UpdateApplicationStatus(ctx context.Context, applicationID string, from domain.ApplicationStatus, to domain.ApplicationStatus, approvalFlowID *string, updatedBy string) error {
	args := m.Called(ctx, applicationID, from, to, approvalFlowID, updatedBy)
	return args.Error(0)
}

func (m *MockApplicationRepository) DeleteApplication(ctx context.Context, applicationID string) error {
	args := m.Called(ctx, applicationID)
	return args.Error(0)
}

// MockApprovalRepository is a mock type for the ApprovalRepositoryFacade interface
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) FindApprovalsByApplicationID(ctx context.Context, applicationID string) ([]domain.Approval, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) ListApprovals(ctx context.Context, opts portsrepo.ApprovalQueryOptions) ([]domain.Approval, *string, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Approval), token, args.Error(2)
}

func (m *MockApprovalRepository) CountPendingByApprover(ctx context.Context, approverID string) (int64, error) {
	args := m.Called(ctx, approverID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApprovalRepository) SaveApprovals(ctx context.Context, approvals []domain.Approval) error {
	args := m.Called(ctx, approvals)
	return args.Error(0)
}

func (m *MockApprovalRepository) TransitionApproval(ctx context.Context, approvalID string, to domain.ApprovalStatus, comment *string, actorID string, actedAt time.Time) (*domain.ApprovalActionResult, error) {
	args := m.Called(ctx, approvalID, to, comment, actorID, actedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalActionResult), args.Error(1)
}

// MockFlowRepository is a mock type for the ApprovalFlowRepositoryFacade interface
type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowRepository) FindActiveFlow(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, organizationID, applicationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowRepository) ListFlowsByOrganization(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowRepository) HasApprovals(ctx context.Context, flowID string) (bool, error) {
	args := m.Called(ctx, flowID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlowRepository) SaveFlow(ctx context.Context, flow domain.ApprovalFlow) error {
	args := m.Called(ctx, flow)
	return args.Error(0)
}

func (m *MockFlowRepository) UpdateFlow(ctx context.Context, flow domain.ApprovalFlow) error {
	args := m.Called(ctx, flow)
	return args.Error(0)
}

func (m *MockFlowRepository) DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error {
	args := m.Called(ctx, flowID, updatedBy)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockOrganizationRepository is a mock type for the OrganizationReader interface
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindOrganizations(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

// MockFlowService is a mock type for the ApprovalFlowSvcFacade interface
type MockFlowService struct {
	mock.Mock
}

func (m *MockFlowService) GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowService) ListFlows(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowService) FindBestMatch(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, organizationID, applicationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowService) CreateFlow(ctx context.Context, req dto.CreateFlowRequest, creatorUserID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowService) UpdateFlow(ctx context.Context, flowID string, req dto.UpdateFlowRequest, requestingUserID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, flowID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowService) DeactivateFlow(ctx context.Context, flowID string, requestingUserID string) error {
	args := m.Called(ctx, flowID, requestingUserID)
	return args.Error(0)
}

func (m *MockFlowService) CreateApprovals(ctx context.Context, application domain.Application, flow domain.ApprovalFlow, creatorUserID string) ([]domain.Approval, error) {
	args := m.Called(ctx, application, flow, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ApplicationSubmitted(ctx context.Context, application domain.Application, approverIDs []string) {
	m.Called(ctx, application, approverIDs)
}

// MockTelemetryRecorder is a mock type for the TelemetryRecorder interface.
// Recording is fire and forget, so the tests only care that calls do not panic.
type MockTelemetryRecorder struct {
	mock.Mock
}

func (m *MockTelemetryRecorder) RecordEvent(ctx context.Context, userID string, event string, properties map[string]any) {
	m.Called(ctx, userID, event, properties)
}

func (m *MockTelemetryRecorder) RecordMetric(ctx context.Context, name string, value float64, properties map[string]any) {
	m.Called(ctx, name, value, properties)
}

func (m *MockTelemetryRecorder) NoticeError(ctx context.Context, operation string, err error) {
	m.Called(ctx, operation, err)
}
