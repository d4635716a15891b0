package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shinseihub/approval_workflow_app/internal/apperrors"
	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portsrepo "github.com/shinseihub/approval_workflow_app/internal/core/ports/repositories"
	"github.com/shinseihub/approval_workflow_app/internal/models"
	"github.com/shinseihub/approval_workflow_app/internal/utils/mapping"
	"github.com/shinseihub/approval_workflow_app/internal/utils/pagination"
)

const applicationColumns = `application_id, title, description, type, priority, amount, requested_date, due_date, status, applicant_id, approval_flow_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxApplicationRepository struct {
	BaseRepository
}

// newPgxApplicationRepository creates a new repository for application data.
func newPgxApplicationRepository(pool *pgxpool.Pool) portsrepo.ApplicationRepositoryWithTx {
	return &PgxApplicationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxApplicationRepository implements portsrepo.ApplicationRepositoryWithTx
var _ portsrepo.ApplicationRepositoryWithTx = (*PgxApplicationRepository)(nil)

func scanApplication(row pgx.Row) (*models.Application, error) {
	var m models.Application
	err := row.Scan(
		&m.ApplicationID,
		&m.Title,
		&m.Description,
		&m.Type,
		&m.Priority,
		&m.Amount,
		&m.RequestedDate,
		&m.DueDate,
		&m.Status,
		&m.ApplicantID,
		&m.ApprovalFlowID,
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

// SaveApplication persists a new application.
func (r *PgxApplicationRepository) SaveApplication(ctx context.Context, application domain.Application) error {
	m := mapping.ToModelApplication(application)
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ApplicationID,
		m.Title,
		m.Description,
		m.Type,
		m.Priority,
		m.Amount,
		m.RequestedDate,
		m.DueDate,
		m.Status,
		m.ApplicantID,
		m.ApprovalFlowID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert application "+m.ApplicationID, err)
	}
	return nil
}

// FindApplicationByID retrieves an application by its ID.
func (r *PgxApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1;`
	m, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find application by ID "+applicationID, err)
	}
	domainApp := mapping.ToDomainApplication(*m)
	return &domainApp, nil
}

// ListApplications retrieves a paginated list of applications matching the
// options using token-based pagination on (created_at, application_id).
func (r *PgxApplicationRepository) ListApplications(ctx context.Context, opts portsrepo.ApplicationQueryOptions) ([]domain.Application, *string, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []interface{}{}

	if opts.ApplicantID != nil {
		args = append(args, *opts.ApplicantID)
		query += ` AND applicant_id = $` + strconv.Itoa(len(args))
	}
	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if opts.Type != nil {
		args = append(args, string(*opts.Type))
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if opts.NextToken != nil && *opts.NextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursor(*opts.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, application_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, application_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query applications", err)
	}
	defer rows.Close()

	results := make([]models.Application, 0, fetchLimit)
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan application row", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating application rows", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ApplicationID)
		nextTokenVal = &token
		results = results[:limit]
	}

	apps := make([]domain.Application, len(results))
	for i, m := range results {
		apps[i] = mapping.ToDomainApplication(m)
	}
	return apps, nextTokenVal, nil
}

// CountApplicationsByStatus returns the number of applications per status,
// optionally restricted to a single applicant.
func (r *PgxApplicationRepository) CountApplicationsByStatus(ctx context.Context, applicantID *string) (map[domain.ApplicationStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM applications`
	args := []interface{}{}
	if applicantID != nil {
		query += ` WHERE applicant_id = $1`
		args = append(args, *applicantID)
	}
	query += ` GROUP BY status;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count applications by status", err)
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan application count row", err)
		}
		counts[domain.ApplicationStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating application count rows", err)
	}
	return counts, nil
}

// UpdateApplication updates an existing application's details.
func (r *PgxApplicationRepository) UpdateApplication(ctx context.Context, application domain.Application) error {
	m := mapping.ToModelApplication(application)
	query := `
		UPDATE applications
		SET title = $2, description = $3, priority = $4, amount = $5, requested_date = $6, due_date = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE application_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ApplicationID,
		m.Title,
		m.Description,
		m.Priority,
		m.Amount,
		m.RequestedDate,
		m.DueDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update application "+m.ApplicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateApplicationStatus transitions the application status. The WHERE
// clause pins the expected current status so a concurrent transition makes
// this a no-op, reported as a conflict.
func (r *PgxApplicationRepository) UpdateApplicationStatus(ctx context.Context, applicationID string, from domain.ApplicationStatus, to domain.ApplicationStatus, approvalFlowID *string, updatedBy string) error {
	query := `
		UPDATE applications
		SET status = $3, approval_flow_id = COALESCE($4, approval_flow_id), last_updated_at = NOW(), last_updated_by = $5
		WHERE application_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, applicationID, string(from), string(to), approvalFlowID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of application "+applicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteApplication removes a draft application permanently. The status
// predicate keeps a concurrently submitted application from being deleted.
func (r *PgxApplicationRepository) DeleteApplication(ctx context.Context, applicationID string) error {
	query := `DELETE FROM applications WHERE application_id = $1 AND status = $2;`
	tag, err := r.Pool.Exec(ctx, query, applicationID, string(domain.StatusDraft))
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete application "+applicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
