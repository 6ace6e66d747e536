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

type DeviceRepo struct {
	pool *pgxpool.Pool
}

func NewDeviceRepo(pool *pgxpool.Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

const deviceColumns = `
id, user_id, fcm_token, active, last_logged_in_time, last_logged_out_time, created_at, updated_at`

func (r *DeviceRepo) Create(ctx context.Context, device model.Device) (model.Device, error) {
	if r.pool == nil {
		return model.Device{}, fmt.Errorf("postgres pool is nil")
	}

	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO devices (
	id, user_id, fcm_token, active, last_logged_in_time, last_logged_out_time, created_at, updated_at
) VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), $6, NOW(), NOW())
RETURNING last_logged_in_time, created_at, updated_at
`,
		device.ID, device.UserID, device.FCMToken, device.Active,
		nullableTime(device.LastLoggedInTime), device.LastLoggedOutTime,
	).Scan(&device.LastLoggedInTime, &device.CreatedAt, &device.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Device{}, errs.Conflictf("device unique constraint %s", constraintName(err))
		}
		return model.Device{}, fmt.Errorf("insert device: %w", err)
	}

	return device, nil
}

func (r *DeviceRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Device, error) {
	if r.pool == nil {
		return model.Device{}, fmt.Errorf("postgres pool is nil")
	}

	var device model.Device
	err := r.pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id).Scan(
		&device.ID, &device.UserID, &device.FCMToken, &device.Active,
		&device.LastLoggedInTime, &device.LastLoggedOutTime, &device.CreatedAt, &device.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Device{}, errs.NotFoundf("device %s", id)
		}
		return model.Device{}, fmt.Errorf("get device by id: %w", err)
	}

	return device, nil
}

func (r *DeviceRepo) MarkLoggedIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE devices
SET active = TRUE, last_logged_in_time = $2, updated_at = NOW()
WHERE id = $1
`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark device logged in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("device %s", id)
	}

	return nil
}

func (r *DeviceRepo) MarkLoggedOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE devices
SET active = FALSE, last_logged_out_time = $2, updated_at = NOW()
WHERE id = $1
`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark device logged out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("device %s", id)
	}

	return nil
}

// SetUser binds or unbinds the device; a nil userID leaves it unbound.
func (r *DeviceRepo) SetUser(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE devices SET user_id = $2, updated_at = NOW() WHERE id = $1
`, id, userID)
	if err != nil {
		return fmt.Errorf("set device user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("device %s", id)
	}

	return nil
}

func (r *DeviceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Device, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+deviceColumns+` FROM devices WHERE user_id = $1 ORDER BY created_at
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list devices by user: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		var device model.Device
		if err := rows.Scan(
			&device.ID, &device.UserID, &device.FCMToken, &device.Active,
			&device.LastLoggedInTime, &device.LastLoggedOutTime, &device.CreatedAt, &device.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan device row: %w", err)
		}
		devices = append(devices, device)
	}

	return devices, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
