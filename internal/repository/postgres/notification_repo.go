// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kynix-service/internal/domain/notification"
	xerrors "kynix-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification and fills the generated id and timestamp.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	var dataJSON []byte
	if n.Data != nil {
		var err error
		dataJSON, err = json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
	}

	err := r.db.QueryRow(
		ctx, query,
		n.UserID, n.Type, n.Title, n.Message, dataJSON,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser returns a page of the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, filters *notification.ListFilters) ([]notification.Notification, int64, error) {
	query := `
		SELECT id, user_id, type, title, message, data, is_read, created_at, read_at,
		       COUNT(*) OVER() AS total
		FROM notifications
		WHERE user_id = $1
		  AND ($2::boolean IS NULL OR is_read = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	offset := (filters.Page - 1) * filters.PageSize
	rows, err := r.db.Query(ctx, query, userID, filters.IsRead, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var (
		out   []notification.Notification
		total int64
	)
	for rows.Next() {
		var (
			n        notification.Notification
			dataJSON []byte
		)
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&dataJSON, &n.IsRead, &n.CreatedAt, &n.ReadAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		out = append(out, n)
	}

	return out, total, rows.Err()
}

// UnreadCount returns the number of unread notifications for the user.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one of the user's notifications as read.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE
	`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either not theirs, missing, or already read; check which
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`
		if err := r.db.QueryRow(ctx, check, id, userID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return xerrors.ErrNotFound
			}
			return err
		}
		if !exists {
			return xerrors.ErrNotFound
		}
	}

	return nil
}

// MarkAllAsRead marks every unread notification of the user as read.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND is_read = FALSE
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}
