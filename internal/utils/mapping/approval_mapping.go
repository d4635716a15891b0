package mapping

import (
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/models"
)

// ToModelApproval converts a domain Approval to a model Approval
func ToModelApproval(d domain.Approval) models.Approval {
	return models.Approval{
		ApprovalID:     d.ApprovalID,
		ApplicationID:  d.ApplicationID,
		ApproverID:     d.ApproverID,
		ApprovalFlowID: d.ApprovalFlowID,
		StepNumber:     d.StepNumber,
		StepType:       string(d.StepType),
		Status:         string(d.Status),
		Comment:        d.Comment,
		ActedAt:        d.ActedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApproval converts a model Approval to a domain Approval
func ToDomainApproval(m models.Approval) domain.Approval {
	return domain.Approval{
		ApprovalID:     m.ApprovalID,
		ApplicationID:  m.ApplicationID,
		ApproverID:     m.ApproverID,
		ApprovalFlowID: m.ApprovalFlowID,
		StepNumber:     m.StepNumber,
		StepType:       domain.StepType(m.StepType),
		Status:         domain.ApprovalStatus(m.Status),
		Comment:        m.Comment,
		ActedAt:        m.ActedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
