package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

// InteractionRepo is insert-only: the ledger never updates or deletes a
// record, corrections arrive as new rows.
type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) Insert(ctx context.Context, rec model.Interaction) (model.Interaction, error) {
	if r.pool == nil {
		return model.Interaction{}, fmt.Errorf("postgres pool is nil")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO interactions (
	id, user_id, music_id, photo_id, video_id, playlist_id,
	interaction_type, occurred_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
RETURNING created_at, updated_at
`,
		rec.ID, rec.UserID, rec.MusicID, rec.PhotoID, rec.VideoID, rec.PlaylistID,
		rec.Type, rec.Timestamp.UTC(),
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Interaction{}, errs.Conflictf("interaction unique constraint %s", constraintName(err))
		}
		return model.Interaction{}, fmt.Errorf("insert interaction: %w", err)
	}

	return rec, nil
}

func (r *InteractionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Interaction, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, music_id, photo_id, video_id, playlist_id,
	interaction_type, occurred_at, created_at, updated_at
FROM interactions
WHERE user_id = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions by user: %w", err)
	}
	defer rows.Close()

	var records []model.Interaction
	for rows.Next() {
		var rec model.Interaction
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.MusicID, &rec.PhotoID, &rec.VideoID, &rec.PlaylistID,
			&rec.Type, &rec.Timestamp, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
