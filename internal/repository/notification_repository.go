package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// NotificationRepository writes in-app notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, noti *domain.Notification) error
	IsEnabled(ctx context.Context, userID int64) (bool, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, noti *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, title, message, category, related_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING noti_id, created_at`
	return r.pool.QueryRow(ctx, query,
		noti.UserID,
		noti.Title,
		noti.Message,
		noti.Category,
		noti.RelatedID,
	).Scan(&noti.ID, &noti.CreatedAt)
}

func (r *notificationRepository) IsEnabled(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT noti_enabled FROM users WHERE user_id=$1`
	var enabled bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&enabled); err != nil {
		return false, err
	}
	return enabled, nil
}
