package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
id, account_type, signup_channel, email, secondary_email,
phone_number, secondary_phone_number, validated_email, validated_phone_number,
pin_hash, password_hash, date_of_birth, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO users (
	id, account_type, signup_channel, email, secondary_email,
	phone_number, secondary_phone_number, validated_email, validated_phone_number,
	pin_hash, password_hash, date_of_birth, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
RETURNING created_at, updated_at
`,
		user.ID, user.AccountType, user.SignupChannel, user.Email, user.SecondaryEmail,
		user.PhoneNumber, user.SecondaryPhoneNumber, user.ValidatedEmail, user.ValidatedPhoneNumber,
		user.PinHash, user.PasswordHash, user.DateOfBirth,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.Conflictf("user unique constraint %s", constraintName(err))
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.NotFoundf("user %s", id)
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.NotFoundf("user with email %s", email)
		}
		return model.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}

func (r *UserRepo) SetEmailValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	return r.setFlag(ctx, id, "validated_email", validated)
}

func (r *UserRepo) SetPhoneValidated(ctx context.Context, id uuid.UUID, validated bool) error {
	return r.setFlag(ctx, id, "validated_phone_number", validated)
}

func (r *UserRepo) setFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users SET `+column+` = $2, updated_at = NOW() WHERE id = $1
`, id, value)
	if err != nil {
		return fmt.Errorf("update users.%s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("user %s", id)
	}

	return nil
}

// DeleteCascade removes the user and everything it owns in one transaction:
// devices, interactions, studios with their playlists and playlist media.
// Notifications are detached, never deleted (weak back-reference).
func (r *UserRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		statements := []string{
			`UPDATE notifications SET user_id = NULL, updated_at = NOW() WHERE user_id = $1`,
			`UPDATE notifications SET studio_id = NULL, updated_at = NOW()
			 WHERE studio_id IN (SELECT id FROM studios WHERE user_id = $1)`,
			`DELETE FROM interactions WHERE user_id = $1`,
			`DELETE FROM devices WHERE user_id = $1`,
			`DELETE FROM media_items WHERE playlist_id IN (
				SELECT p.id FROM playlists p
				JOIN studios s ON s.id = p.studio_id
				WHERE s.user_id = $1
			)`,
			`DELETE FROM playlists WHERE studio_id IN (SELECT id FROM studios WHERE user_id = $1)`,
			`DELETE FROM studios WHERE user_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("cascade user delete: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errs.NotFoundf("user %s", id)
		}

		return nil
	})
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.AccountType, &user.SignupChannel, &user.Email, &user.SecondaryEmail,
		&user.PhoneNumber, &user.SecondaryPhoneNumber, &user.ValidatedEmail, &user.ValidatedPhoneNumber,
		&user.PinHash, &user.PasswordHash, &user.DateOfBirth, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}
