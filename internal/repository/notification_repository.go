package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Append сохраняет уведомление
func (r *NotificationRepository) Append(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_email, title, message, kind, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query, n.ID, n.RecipientEmail, n.Title, n.Message, n.Kind, n.Timestamp, n.Read)
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	return nil
}

// ListForRecipient получает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListForRecipient(ctx context.Context, email string) ([]*model.Notification, error) {
	query := `
		SELECT id, recipient_email, title, message, kind, created_at, read
		FROM notifications
		WHERE recipient_email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientEmail, &n.Title, &n.Message, &n.Kind, &n.Timestamp, &n.Read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead помечает уведомление прочитанным; false если ничего не изменилось
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND NOT read`, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
