package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	"github.com/shinseihub/approval_workflow_app/internal/models"
	"github.com/shinseihub/approval_workflow_app/internal/utils/mapping"
	"github.com/shinseihub/approval_workflow_app/internal/utils/pagination"
)

const approvalColumns = `approval_id, application_id, approver_id, approval_flow_id, step_number, step_type, status, comment, acted_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates a new repository for approval data.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryWithTx {
	return &PgxApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxApprovalRepository implements portsrepo.ApprovalRepositoryWithTx
var _ portsrepo.ApprovalRepositoryWithTx = (*PgxApprovalRepository)(nil)

func scanApproval(row pgx.Row) (*models.Approval, error) {
	var m models.Approval
	err := row.Scan(
		&m.ApprovalID,
		&m.ApplicationID,
		&m.ApproverID,
		&m.ApprovalFlowID,
		&m.StepNumber,
		&m.StepType,
		&m.Status,
		&m.Comment,
		&m.ActedAt,
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

// SaveApprovals persists the full set of approval rows for an application in
// a single batch.
func (r *PgxApprovalRepository) SaveApprovals(ctx context.Context, approvals []domain.Approval) error {
	if len(approvals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, approval := range approvals {
		m := mapping.ToModelApproval(approval)
		batch.Queue(query,
			m.ApprovalID,
			m.ApplicationID,
			m.ApproverID,
			m.ApprovalFlowID,
			m.StepNumber,
			m.StepType,
			m.Status,
			m.Comment,
			m.ActedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute approval insert batch", err)
	}
	return nil
}

// FindApprovalByID retrieves an approval by its ID.
func (r *PgxApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE approval_id = $1;`
	m, err := scanApproval(r.Pool.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find approval by ID "+approvalID, err)
	}
	domainApproval := mapping.ToDomainApproval(*m)
	return &domainApproval, nil
}

// FindApprovalsByApplicationID retrieves every approval row of an application
// ordered by step number.
func (r *PgxApprovalRepository) FindApprovalsByApplicationID(ctx context.Context, applicationID string) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE application_id = $1 ORDER BY step_number, created_at, approval_id;`
	rows, err := r.Pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals for application "+applicationID, err)
	}
	defer rows.Close()
	return collectApprovals(rows)
}

func collectApprovals(rows pgx.Rows) ([]domain.Approval, error) {
	approvals := []domain.Approval{}
	for rows.Next() {
		m, err := scanApproval(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval row", err)
		}
		approvals = append(approvals, mapping.ToDomainApproval(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval rows", err)
	}
	return approvals, nil
}

// ListApprovals retrieves a paginated list of approvals matching the options
// using token-based pagination on (created_at, approval_id).
func (r *PgxApprovalRepository) ListApprovals(ctx context.Context, opts portsrepo.ApprovalQueryOptions) ([]domain.Approval, *string, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE 1=1`
	args := []interface{}{}

	if len(opts.IDs) > 0 {
		args = append(args, opts.IDs)
		query += ` AND approval_id = ANY($` + strconv.Itoa(len(args)) + `)`
	}
	if opts.ApproverID != nil {
		args = append(args, *opts.ApproverID)
		query += ` AND approver_id = $` + strconv.Itoa(len(args))
	}
	if opts.ApplicationID != nil {
		args = append(args, *opts.ApplicationID)
		query += ` AND application_id = $` + strconv.Itoa(len(args))
	}
	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if opts.NextToken != nil && *opts.NextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursor(*opts.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, approval_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, approval_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query approvals", err)
	}
	defer rows.Close()

	approvals, err := collectApprovals(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(approvals) > limit {
		last := approvals[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ApprovalID)
		nextTokenVal = &token
		approvals = approvals[:limit]
	}
	return approvals, nextTokenVal, nil
}

// CountPendingByApprover returns the number of pending rows assigned to a user.
func (r *PgxApprovalRepository) CountPendingByApprover(ctx context.Context, approverID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM approvals WHERE approver_id = $1 AND status = $2;`
	if err := r.Pool.QueryRow(ctx, query, approverID, string(domain.ApprovalPending)).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count pending approvals for "+approverID, err)
	}
	return count, nil
}

// TransitionApproval records a decision on one approval row and advances the
// owning application, all inside a single transaction. The application row is
// locked FOR UPDATE first so concurrent decisions on the same application
// serialize, and every derived value is recomputed from the locked state.
func (r *PgxApprovalRepository) TransitionApproval(ctx context.Context, approvalID string, to domain.ApprovalStatus, comment *string, actorID string, actedAt time.Time) (*domain.ApprovalActionResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Resolve the owning application without locking the approval row yet.
	var applicationID string
	err = tx.QueryRow(ctx, `SELECT application_id FROM approvals WHERE approval_id = $1;`, approvalID).Scan(&applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to resolve application for approval "+approvalID, err)
	}

	// Lock the application row. This is the serialization point for every
	// decision on this application.
	appQuery := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1 FOR UPDATE;`
	appModel, err := scanApplication(tx.QueryRow(ctx, appQuery, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock application "+applicationID, err)
	}
	app := mapping.ToDomainApplication(*appModel)

	if app.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: application has been cancelled", apperrors.ErrConflict)
	}

	// Load the flow and the full sibling set under the lock.
	flowQuery := `SELECT ` + approvalFlowColumns + ` FROM approval_flows WHERE flow_id = (SELECT approval_flow_id FROM approvals WHERE approval_id = $1);`
	flowModel, err := scanApprovalFlow(tx.QueryRow(ctx, flowQuery, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load flow for approval "+approvalID, err)
	}
	flow, err := mapping.ToDomainApprovalFlow(*flowModel)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode flow config", err)
	}

	siblingRows, err := tx.Query(ctx, `SELECT `+approvalColumns+` FROM approvals WHERE application_id = $1 ORDER BY step_number, created_at, approval_id;`, applicationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals for application "+applicationID, err)
	}
	siblings, err := collectApprovals(siblingRows)
	if err != nil {
		return nil, err
	}

	var target *domain.Approval
	for i := range siblings {
		if siblings[i].ApprovalID == approvalID {
			target = &siblings[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrNotFound
	}
	if !target.IsPending() {
		return nil, fmt.Errorf("%w: approval already %s", apperrors.ErrConflict, target.Status)
	}

	// Gate on the derived current step, never on the raw pending status.
	if !domain.RowActionable(flow.Steps, siblings, target, app.Status) {
		return nil, fmt.Errorf("%w: approval is not actionable at the current step", domain.ErrInvalidTransition)
	}

	// Guarded update: a concurrent decision on the same row loses here.
	updateQuery := `
		UPDATE approvals
		SET status = $2, comment = COALESCE($3, comment), acted_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE approval_id = $1 AND status = $6;
	`
	tag, err := tx.Exec(ctx, updateQuery, approvalID, string(to), comment, actedAt, actorID, string(domain.ApprovalPending))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update approval "+approvalID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: approval already processed", apperrors.ErrConflict)
	}

	target.Status = to
	if comment != nil {
		target.Comment = comment
	}
	target.ActedAt = &actedAt
	target.LastUpdatedAt = actedAt
	target.LastUpdatedBy = actorID

	result := &domain.ApprovalActionResult{
		Approval:          *target,
		ApplicationStatus: app.Status,
	}

	// Advancement only ever moves an under-review application. Decisions
	// recorded on terminal applications leave the status alone.
	if app.Status == domain.StatusUnderReview {
		outcome := domain.EvaluateOutcome(flow.Steps, siblings)
		if outcome != app.Status {
			appUpdate := `UPDATE applications SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE application_id = $1;`
			if _, err := tx.Exec(ctx, appUpdate, applicationID, string(outcome), actedAt, actorID); err != nil {
				return nil, apperrors.NewAppError(500, "failed to advance application "+applicationID, err)
			}
			result.ApplicationStatus = outcome
			result.StatusChanged = true
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}
