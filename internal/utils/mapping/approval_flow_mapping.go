package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	"github.com/shinseihub/approval_workflow_app/internal/models"
)

// ToModelApprovalFlow converts a domain ApprovalFlow to a model ApprovalFlow,
// serializing the step configuration to JSONB.
func ToModelApprovalFlow(d domain.ApprovalFlow) (models.ApprovalFlow, error) {
	flowConfig, err := json.Marshal(d.Steps)
	if err != nil {
		return models.ApprovalFlow{}, fmt.Errorf("failed to marshal flow config: %w", err)
	}
	return models.ApprovalFlow{
		FlowID:          d.FlowID,
		Name:            d.Name,
		Description:     d.Description,
		ApplicationType: string(d.ApplicationType),
		OrganizationID:  d.OrganizationID,
		StepCount:       d.StepCount,
		FlowConfig:      flowConfig,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainApprovalFlow converts a model ApprovalFlow to a domain ApprovalFlow
func ToDomainApprovalFlow(m models.ApprovalFlow) (domain.ApprovalFlow, error) {
	var steps domain.FlowConfig
	if len(m.FlowConfig) > 0 {
		if err := json.Unmarshal(m.FlowConfig, &steps); err != nil {
			return domain.ApprovalFlow{}, fmt.Errorf("failed to unmarshal flow config for flow %s: %w", m.FlowID, err)
		}
	}
	return domain.ApprovalFlow{
		FlowID:          m.FlowID,
		Name:            m.Name,
		Description:     m.Description,
		ApplicationType: domain.ApplicationType(m.ApplicationType),
		OrganizationID:  m.OrganizationID,
		StepCount:       m.StepCount,
		Steps:           steps,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}
