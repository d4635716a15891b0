package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	"github.com/shinseihub/approval_workflow_app/internal/models"
	"github.com/shinseihub/approval_workflow_app/internal/utils/mapping"
)

const approvalFlowColumns = `flow_id, name, description, application_type, organization_id, step_count, flow_config, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxApprovalFlowRepository struct {
	BaseRepository
}

// newPgxApprovalFlowRepository creates a new repository for approval flow data.
func newPgxApprovalFlowRepository(pool *pgxpool.Pool) portsrepo.ApprovalFlowRepositoryFacade {
	return &PgxApprovalFlowRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxApprovalFlowRepository implements portsrepo.ApprovalFlowRepositoryFacade
var _ portsrepo.ApprovalFlowRepositoryFacade = (*PgxApprovalFlowRepository)(nil)

func scanApprovalFlow(row pgx.Row) (*models.ApprovalFlow, error) {
	var m models.ApprovalFlow
	err := row.Scan(
		&m.FlowID,
		&m.Name,
		&m.Description,
		&m.ApplicationType,
		&m.OrganizationID,
		&m.StepCount,
		&m.FlowConfig,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFlow persists a new approval flow.
func (r *PgxApprovalFlowRepository) SaveFlow(ctx context.Context, flow domain.ApprovalFlow) error {
	m, err := mapping.ToModelApprovalFlow(flow)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode flow config", err)
	}
	query := `
		INSERT INTO approval_flows (` + approvalFlowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.FlowID,
		m.Name,
		m.Description,
		m.ApplicationType,
		m.OrganizationID,
		m.StepCount,
		m.FlowConfig,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert flow "+m.FlowID, err)
	}
	return nil
}

// FindFlowByID retrieves a flow by its ID.
func (r *PgxApprovalFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	query := `SELECT ` + approvalFlowColumns + ` FROM approval_flows WHERE flow_id = $1;`
	m, err := scanApprovalFlow(r.Pool.QueryRow(ctx, query, flowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find flow by ID "+flowID, err)
	}
	flow, err := mapping.ToDomainApprovalFlow(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode flow config", err)
	}
	return &flow, nil
}

// FindActiveFlow retrieves the active flow configured for the organization
// and application type. The newest flow wins when several are active.
func (r *PgxApprovalFlowRepository) FindActiveFlow(ctx context.Context, organizationID string, applicationType domain.ApplicationType) (*domain.ApprovalFlow, error) {
	query := `
		SELECT ` + approvalFlowColumns + `
		FROM approval_flows
		WHERE organization_id = $1 AND application_type = $2 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanApprovalFlow(r.Pool.QueryRow(ctx, query, organizationID, string(applicationType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active flow for organization "+organizationID, err)
	}
	flow, err := mapping.ToDomainApprovalFlow(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode flow config", err)
	}
	return &flow, nil
}

// ListFlowsByOrganization retrieves all flows of an organization.
func (r *PgxApprovalFlowRepository) ListFlowsByOrganization(ctx context.Context, organizationID string) ([]domain.ApprovalFlow, error) {
	query := `SELECT ` + approvalFlowColumns + ` FROM approval_flows WHERE organization_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query flows for organization "+organizationID, err)
	}
	defer rows.Close()

	flows := []domain.ApprovalFlow{}
	for rows.Next() {
		m, err := scanApprovalFlow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan flow row", err)
		}
		flow, err := mapping.ToDomainApprovalFlow(*m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode flow config", err)
		}
		flows = append(flows, flow)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating flow rows", err)
	}
	return flows, nil
}

// HasApprovals reports whether any approval row references the flow.
func (r *PgxApprovalFlowRepository) HasApprovals(ctx context.Context, flowID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM approvals WHERE approval_flow_id = $1);`
	if err := r.Pool.QueryRow(ctx, query, flowID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check approvals for flow "+flowID, err)
	}
	return exists, nil
}

// UpdateFlow updates an existing flow's details.
func (r *PgxApprovalFlowRepository) UpdateFlow(ctx context.Context, flow domain.ApprovalFlow) error {
	m, err := mapping.ToModelApprovalFlow(flow)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode flow config", err)
	}
	query := `
		UPDATE approval_flows
		SET name = $2, description = $3, application_type = $4, step_count = $5, flow_config = $6, is_active = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE flow_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.FlowID,
		m.Name,
		m.Description,
		m.ApplicationType,
		m.StepCount,
		m.FlowConfig,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update flow "+m.FlowID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateFlow marks a flow inactive.
func (r *PgxApprovalFlowRepository) DeactivateFlow(ctx context.Context, flowID string, updatedBy string) error {
	query := `
		UPDATE approval_flows
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $2
		WHERE flow_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, flowID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate flow "+flowID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
