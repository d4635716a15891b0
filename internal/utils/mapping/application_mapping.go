package mapping

import (
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/models"
)

// ToModelApplication converts a domain Application to a model Application
func ToModelApplication(d domain.Application) models.Application {
	return models.Application{
		ApplicationID:  d.ApplicationID,
		Title:          d.Title,
		Description:    d.Description,
		Type:           string(d.Type),
		Priority:       string(d.Priority),
		Amount:         d.Amount,
		RequestedDate:  d.RequestedDate,
		DueDate:        d.DueDate,
		Status:         string(d.Status),
		ApplicantID:    d.ApplicantID,
		ApprovalFlowID: d.ApprovalFlowID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApplication converts a model Application to a domain Application
func ToDomainApplication(m models.Application) domain.Application {
	return domain.Application{
		ApplicationID:  m.ApplicationID,
		Title:          m.Title,
		Description:    m.Description,
		Type:           domain.ApplicationType(m.Type),
		Priority:       domain.Priority(m.Priority),
		Amount:         m.Amount,
		RequestedDate:  m.RequestedDate,
		DueDate:        m.DueDate,
		Status:         domain.ApplicationStatus(m.Status),
		ApplicantID:    m.ApplicantID,
		ApprovalFlowID: m.ApprovalFlowID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
