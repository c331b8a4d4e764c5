package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// WorkloadStats aggregates a technician's active-load breakdown for the
// dashboard.
type WorkloadStats struct {
	TotalAssigned int
	ActiveCount   int
	BlockedCount  int
	UrgentCount   int
}

// TransitionUpdate describes the single-row write applied by the lifecycle
// state machine. AssignedTo is always written, as an explicit NULL when nil.
type TransitionUpdate struct {
	RequestID  int64
	Status     domain.RequestStatus
	AssignedTo *int64
	Priority   *domain.RequestPriority
	ResolvedAt *time.Time
}

// RequestRepository encapsulates help-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.HelpRequest) error
	GetByID(ctx context.Context, id int64) (*domain.HelpRequest, error)
	ListActiveForTechnician(ctx context.Context, technicianID int64) ([]domain.HelpRequest, error)
	CountActiveForTechnician(ctx context.Context, technicianID int64) (int, error)
	ListUnassigned(ctx context.Context) ([]domain.HelpRequest, error)
	ApplyTransition(ctx context.Context, update TransitionUpdate) error
	WorkloadStats(ctx context.Context, technicianID int64) (*WorkloadStats, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `request_id, external_key, user_id, category, title, description,
               status, priority, assigned_to, created_at, updated_at, resolved_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.HelpRequest) error {
	const query = `
        INSERT INTO help_requests (external_key, user_id, category, title, description, status, priority, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING request_id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.ExternalKey,
		request.RequesterID,
		request.Category,
		request.Title,
		request.Description,
		request.Status,
		request.Priority,
		request.AssignedTo,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.HelpRequest, error) {
	const query = `
        SELECT ` + requestColumns + `
        FROM help_requests WHERE request_id=$1`
	var request domain.HelpRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.ExternalKey,
		&request.RequesterID,
		&request.Category,
		&request.Title,
		&request.Description,
		&request.Status,
		&request.Priority,
		&request.AssignedTo,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListActiveForTechnician(ctx context.Context, technicianID int64) ([]domain.HelpRequest, error) {
	const query = `
        SELECT ` + requestColumns + `
        FROM help_requests
        WHERE assigned_to=$1 AND status IN ('assigned','blocked')
        ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) CountActiveForTechnician(ctx context.Context, technicianID int64) (int, error) {
	const query = `
        SELECT COUNT(*)
        FROM help_requests
        WHERE assigned_to=$1 AND status IN ('assigned','blocked')`
	var count int
	if err := r.pool.QueryRow(ctx, query, technicianID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListUnassigned returns the open backlog ordered by priority rank then age.
// The ELSE arm ranks unknown priorities, including "high", last.
func (r *requestRepository) ListUnassigned(ctx context.Context) ([]domain.HelpRequest, error) {
	const query = `
        SELECT ` + requestColumns + `
        FROM help_requests
        WHERE assigned_to IS NULL AND status != 'solved'
        ORDER BY
            CASE priority
                WHEN 'urgent' THEN 1
                WHEN 'medium' THEN 2
                WHEN 'low' THEN 3
                ELSE 4
            END,
            created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ApplyTransition(ctx context.Context, update TransitionUpdate) error {
	const query = `
        UPDATE help_requests
        SET status=$1,
            assigned_to=$2,
            priority=COALESCE($3, priority),
            resolved_at=COALESCE($4, resolved_at),
            updated_at=NOW()
        WHERE request_id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		update.Status,
		update.AssignedTo,
		update.Priority,
		update.ResolvedAt,
		update.RequestID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) WorkloadStats(ctx context.Context, technicianID int64) (*WorkloadStats, error) {
	const query = `
        SELECT
            COUNT(*) AS total_assigned,
            COUNT(CASE WHEN status = 'assigned' THEN 1 END) AS active_count,
            COUNT(CASE WHEN status = 'blocked' THEN 1 END) AS blocked_count,
            COUNT(CASE WHEN priority = 'urgent' THEN 1 END) AS urgent_count
        FROM help_requests
        WHERE assigned_to=$1 AND status IN ('assigned','blocked')`
	var stats WorkloadStats
	if err := r.pool.QueryRow(ctx, query, technicianID).Scan(
		&stats.TotalAssigned,
		&stats.ActiveCount,
		&stats.BlockedCount,
		&stats.UrgentCount,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanRequests(rows pgx.Rows) ([]domain.HelpRequest, error) {
	var result []domain.HelpRequest
	for rows.Next() {
		var request domain.HelpRequest
		if err := rows.Scan(
			&request.ID,
			&request.ExternalKey,
			&request.RequesterID,
			&request.Category,
			&request.Title,
			&request.Description,
			&request.Status,
			&request.Priority,
			&request.AssignedTo,
			&request.CreatedAt,
			&request.UpdatedAt,
			&request.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
