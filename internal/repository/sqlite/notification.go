package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

func (r *SQLiteRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO notifications (id, user_id, type, title, message, related_job_id, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, nullString(n.RelatedJobID), n.IsRead, millis(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, type, title, message, related_job_id, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var (
			n       models.Notification
			typ     string
			related sql.NullString
			created int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &related, &n.IsRead, &created); err != nil {
			return nil, err
		}
		if n.Type, err = models.ParseNotificationType(typ); err != nil {
			return nil, err
		}
		n.RelatedJobID = stringPtr(related)
		n.CreatedAt = fromMillis(created)
		out = append(out, n)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var (
		n       models.Notification
		typ     string
		related sql.NullString
		created int64
	)
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, type, title, message, related_job_id, is_read, created_at FROM notifications WHERE id = ?`, id)
	if err := row.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &related, &n.IsRead, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if n.Type, err = models.ParseNotificationType(typ); err != nil {
		return nil, err
	}
	n.RelatedJobID = stringPtr(related)
	n.CreatedAt = fromMillis(created)

	return &n, nil
}

func (r *SQLiteRepo) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
