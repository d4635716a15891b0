package services

import (
	"context"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
)

// ApplicationReaderSvc defines read operations for application data
type ApplicationReaderSvc interface {
	// GetApplicationByID retrieves a specific application by its ID.
	GetApplicationByID(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error)

	// GetApplicationDetail retrieves an application together with its approval rows.
	GetApplicationDetail(ctx context.Context, applicationID string, requestingUserID string) (*dto.ApplicationDetailResponse, error)

	// ListApplications retrieves a paginated list of applications.
	ListApplications(ctx context.Context, requestingUserID string, params dto.ListApplicationsParams) (*dto.ListApplicationsResponse, error)
}

// ApplicationWriterSvc defines write operations for application data
type ApplicationWriterSvc interface {
	// CreateApplication persists a new draft application.
	CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, creatorUserID string) (*domain.Application, error)

	// UpdateApplication updates an editable application's details.
	UpdateApplication(ctx context.Context, applicationID string, req dto.UpdateApplicationRequest, requestingUserID string) (*domain.Application, error)

	// SubmitApplication moves a draft into review, resolving its flow and
	// creating the approval rows.
	SubmitApplication(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error)

	// CancelApplication cancels a draft or under-review application.
	CancelApplication(ctx context.Context, applicationID string, requestingUserID string) (*domain.Application, error)

	// DeleteApplication permanently removes a draft application.
	DeleteApplication(ctx context.Context, applicationID string, requestingUserID string) error
}

// ApplicationSvcFacade combines all application-related service interfaces
// This is a facade for clients that need access to all operations
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
}
