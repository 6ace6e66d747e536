package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type StudioRepo struct {
	pool *pgxpool.Pool
}

func NewStudioRepo(pool *pgxpool.Pool) *StudioRepo {
	return &StudioRepo{pool: pool}
}

const studioColumns = `
id, user_id, status, name, description, picture_url, created_at, updated_at`

func (r *StudioRepo) Create(ctx context.Context, studio model.Studio) (model.Studio, error) {
	if r.pool == nil {
		return model.Studio{}, fmt.Errorf("postgres pool is nil")
	}

	if studio.ID == uuid.Nil {
		studio.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO studios (id, user_id, status, name, description, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING created_at, updated_at
`,
		studio.ID, studio.UserID, studio.Status, studio.Name, studio.Description, studio.PictureURL,
	).Scan(&studio.CreatedAt, &studio.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Studio{}, errs.Conflictf("studio unique constraint %s", constraintName(err))
		}
		return model.Studio{}, fmt.Errorf("insert studio: %w", err)
	}

	return studio, nil
}

func (r *StudioRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Studio, error) {
	if r.pool == nil {
		return model.Studio{}, fmt.Errorf("postgres pool is nil")
	}

	var studio model.Studio
	err := r.pool.QueryRow(ctx, `SELECT `+studioColumns+` FROM studios WHERE id = $1`, id).Scan(
		&studio.ID, &studio.UserID, &studio.Status, &studio.Name,
		&studio.Description, &studio.PictureURL, &studio.CreatedAt, &studio.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Studio{}, errs.NotFoundf("studio %s", id)
		}
		return model.Studio{}, fmt.Errorf("get studio by id: %w", err)
	}

	return studio, nil
}

func (r *StudioRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM studios WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check studio exists: %w", err)
	}

	return exists, nil
}

func (r *StudioRepo) SetStatus(ctx context.Context, id uuid.UUID, status enums.StudioStatus) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE studios SET status = $2, updated_at = NOW() WHERE id = $1
`, id, status)
	if err != nil {
		return fmt.Errorf("set studio status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("studio %s", id)
	}

	return nil
}

// DeleteCascade removes the studio with its playlists and the media in them,
// detaching notifications instead of deleting them.
func (r *StudioRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		statements := []string{
			`UPDATE notifications SET studio_id = NULL, updated_at = NOW() WHERE studio_id = $1`,
			`DELETE FROM media_items WHERE playlist_id IN (SELECT id FROM playlists WHERE studio_id = $1)`,
			`DELETE FROM playlists WHERE studio_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("cascade studio delete: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM studios WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete studio: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errs.NotFoundf("studio %s", id)
		}

		return nil
	})
}
