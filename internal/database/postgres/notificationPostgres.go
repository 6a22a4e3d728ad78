package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, category, title, body, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Category, n.Title, n.Body, n.EventID,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, category, title, body, event_id, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Category, &n.Title, &n.Body,
			&n.EventID, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read_at = $1
		WHERE id = $2 AND user_id = $3 AND read_at IS NULL
	`, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	// Already-read is not an error; only a missing row is.
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`,
			id, userID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return entity.ErrInvalidInput
		}
	}
	return nil
}

// GetPreferences returns nil when the user never saved preferences; callers
// fall back to the defaults.
func (r *notificationRepository) GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreferences, error) {
	var raw []byte
	prefs := entity.NotificationPreferences{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT prefs, updated_at FROM notification_preferences WHERE user_id = $1`,
		userID).Scan(&raw, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &prefs.Prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &prefs, nil
}

func (r *notificationRepository) SavePreferences(ctx context.Context, prefs *entity.NotificationPreferences) error {
	raw, err := json.Marshal(prefs.Prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notification_preferences (user_id, prefs, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = EXCLUDED.updated_at
	`, prefs.UserID, raw, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
