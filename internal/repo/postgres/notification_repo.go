package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

// NotificationRepo stores message bodies as compressed bytes only; the
// plaintext never reaches this layer. Status moves exclusively through the
// compare-and-swap updates below.
type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

const notificationColumns = `
id, user_id, studio_id, channel, status, subject, message,
send_at, delivered_at, error_log, created_at, updated_at`

func (r *NotificationRepo) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if r.pool == nil {
		return model.Notification{}, fmt.Errorf("postgres pool is nil")
	}

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO notifications (
	id, user_id, studio_id, channel, status, subject, message,
	send_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
RETURNING created_at, updated_at
`,
		n.ID, n.UserID, n.StudioID, n.Channel, n.Status, n.Subject, n.Message,
		n.SendAt.UTC(),
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Notification{}, errs.Conflictf("notification unique constraint %s", constraintName(err))
		}
		return model.Notification{}, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

func (r *NotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	if r.pool == nil {
		return model.Notification{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notification{}, errs.NotFoundf("notification %s", id)
		}
		return model.Notification{}, fmt.Errorf("get notification by id: %w", err)
	}

	return n, nil
}

// MarkSent transitions pending -> sent. The status guard in the WHERE clause
// serializes racing delivery callbacks: the first writer wins, the loser sees
// InvalidStateError.
func (r *NotificationRepo) MarkSent(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE notifications
SET status = 'sent', delivered_at = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, id, deliveredAt.UTC())
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}

	return r.checkTransition(ctx, tag.RowsAffected(), id)
}

// MarkFailed transitions pending -> failed, recording the gateway's error.
func (r *NotificationRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorLog string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE notifications
SET status = 'failed', error_log = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, id, errorLog)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}

	return r.checkTransition(ctx, tag.RowsAffected(), id)
}

func (r *NotificationRepo) checkTransition(ctx context.Context, rowsAffected int64, id uuid.UUID) error {
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check notification exists: %w", err)
	}
	if !exists {
		return errs.NotFoundf("notification %s", id)
	}
	return errs.InvalidStatef("notification %s already left pending", id)
}

// UpdateMessage rewrites the compressed body of a still-pending notification.
// This and Create are the only writers of the message column, which is what
// keeps already-compressed bytes from being compressed a second time.
func (r *NotificationRepo) UpdateMessage(ctx context.Context, id uuid.UUID, compressed []byte) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE notifications
SET message = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, id, compressed)
	if err != nil {
		return fmt.Errorf("update notification message: %w", err)
	}

	return r.checkTransition(ctx, tag.RowsAffected(), id)
}

// ListDue returns pending notifications whose scheduled dispatch time has
// passed, oldest first.
func (r *NotificationRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+notificationColumns+`
FROM notifications
WHERE status = 'pending' AND send_at <= $1
ORDER BY send_at, id
LIMIT $2
`, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	defer rows.Close()

	var due []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		due = append(due, n)
	}

	return due, rows.Err()
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+notificationColumns+`
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications by user: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func scanNotification(row pgx.Row) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.StudioID, &n.Channel, &n.Status, &n.Subject, &n.Message,
		&n.SendAt, &n.DeliveredAt, &n.ErrorLog, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}
