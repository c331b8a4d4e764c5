package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// TechnicianRepository reads support staff from the platform user directory.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
	// ListEligible returns active technicians eligible for a priority tier,
	// ordered by ascending id. The ordering is the tie-break for every
	// selection downstream.
	ListEligible(ctx context.Context, priority domain.RequestPriority) ([]domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

const technicianColumns = `user_id, username, first_name, last_name, email, platform_role,
               status = 'active', created_at, updated_at`

func (r *technicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	const query = `
        SELECT ` + technicianColumns + `
        FROM users
        WHERE user_id=$1 AND platform_role IN ('super_admin','support_technician')`
	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tech.ID,
		&tech.Username,
		&tech.FirstName,
		&tech.LastName,
		&tech.Email,
		&tech.Role,
		&tech.Active,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepository) ListEligible(ctx context.Context, priority domain.RequestPriority) ([]domain.Technician, error) {
	// High priority requests are reserved for super admins; every other
	// tier draws from the full support pool.
	query := `
        SELECT ` + technicianColumns + `
        FROM users
        WHERE platform_role IN ('super_admin','support_technician')
        AND status = 'active'
        ORDER BY user_id`
	if priority == domain.RequestPriorityHigh {
		query = `
        SELECT ` + technicianColumns + `
        FROM users
        WHERE platform_role = 'super_admin'
        AND status = 'active'
        ORDER BY user_id`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.Username,
			&tech.FirstName,
			&tech.LastName,
			&tech.Email,
			&tech.Role,
			&tech.Active,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}
