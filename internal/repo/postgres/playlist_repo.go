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

type PlaylistRepo struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepo(pool *pgxpool.Pool) *PlaylistRepo {
	return &PlaylistRepo{pool: pool}
}

func (r *PlaylistRepo) Create(ctx context.Context, playlist model.Playlist) (model.Playlist, error) {
	if r.pool == nil {
		return model.Playlist{}, fmt.Errorf("postgres pool is nil")
	}

	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO playlists (id, studio_id, title, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING created_at, updated_at
`,
		playlist.ID, playlist.StudioID, playlist.Title, playlist.Description,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Playlist{}, errs.Conflictf("playlist unique constraint %s", constraintName(err))
		}
		return model.Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}

	return playlist, nil
}

func (r *PlaylistRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Playlist, error) {
	if r.pool == nil {
		return model.Playlist{}, fmt.Errorf("postgres pool is nil")
	}

	var playlist model.Playlist
	err := r.pool.QueryRow(ctx, `
SELECT id, studio_id, title, description, created_at, updated_at
FROM playlists
WHERE id = $1
`, id).Scan(
		&playlist.ID, &playlist.StudioID, &playlist.Title,
		&playlist.Description, &playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Playlist{}, errs.NotFoundf("playlist %s", id)
		}
		return model.Playlist{}, fmt.Errorf("get playlist by id: %w", err)
	}

	return playlist, nil
}

func (r *PlaylistRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check playlist exists: %w", err)
	}

	return exists, nil
}

// DeleteCascade removes the playlist and the media items it owns.
func (r *PlaylistRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM media_items WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("cascade playlist media delete: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errs.NotFoundf("playlist %s", id)
		}

		return nil
	})
}
