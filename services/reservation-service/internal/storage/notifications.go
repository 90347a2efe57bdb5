package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const notificationColumns = `id, reservation_id, user_id, channel, event_type, recipient, payload, status,
	error_message, created_at, sent_at`

func scanNotification(row pgx.Row) (model.Notification, error) {
	var (
		n       model.Notification
		status  string
		payload []byte
	)
	err := row.Scan(&n.ID, &n.ReservationID, &n.UserID, &n.Channel, &n.EventType, &n.Recipient, &payload,
		&status, &n.ErrorMessage, &n.CreatedAt, &n.SentAt)
	if err != nil {
		return model.Notification{}, translate(err)
	}
	n.Payload = payload
	n.Status = model.NotificationStatus(status)
	return n, nil
}

func collectNotifications(rows pgx.Rows) ([]model.Notification, error) {
	defer rows.Close()
	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// QueueNotification stores a pending notification in the caller's transaction.
func (r *Repository) QueueNotification(ctx context.Context, tx pgx.Tx, n model.Notification) (model.Notification, error) {
	return scanNotification(tx.QueryRow(ctx, `
		INSERT INTO notifications (reservation_id, user_id, channel, event_type, recipient, payload, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING `+notificationColumns,
		n.ReservationID, n.UserID, n.Channel, n.EventType, n.Recipient, []byte(n.Payload)))
}

func (r *Repository) GetNotification(ctx context.Context, id int64) (model.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

// ListNotifications returns the newest notifications first, optionally by status.
func (r *Repository) ListNotifications(ctx context.Context, status model.NotificationStatus, limit int) ([]model.Notification, error) {
	var st *string
	if status != "" {
		s := string(status)
		st = &s
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE $1::text IS NULL OR status = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, st, limit)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

// ClaimPending locks up to limit pending notifications for dispatch.
func (r *Repository) ClaimPending(ctx context.Context, tx pgx.Tx, limit int) ([]model.Notification, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status = 'pending'
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

func (r *Repository) MarkNotificationSent(ctx context.Context, tx pgx.Tx, id int64, sentAt time.Time) error {
	return affectedOne(tx.Exec(ctx, `
		UPDATE notifications
		SET status = 'sent', sent_at = $2, error_message = ''
		WHERE id = $1
	`, id, sentAt))
}

func (r *Repository) MarkNotificationFailed(ctx context.Context, tx pgx.Tx, id int64, reason string) error {
	return affectedOne(tx.Exec(ctx, `
		UPDATE notifications
		SET status = 'failed', error_message = $2
		WHERE id = $1
	`, id, reason))
}

// ResetNotification puts a notification back in the pending queue and returns it locked.
func (r *Repository) ResetNotification(ctx context.Context, tx pgx.Tx, id int64) (model.Notification, error) {
	return scanNotification(tx.QueryRow(ctx, `
		UPDATE notifications
		SET status = 'pending', error_message = '', sent_at = NULL
		WHERE id = $1
		RETURNING `+notificationColumns,
		id))
}
