package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

// MediaRepo persists all three asset kinds in one media_items table with a
// kind discriminator; specialization columns are null for the other kinds.
type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

const mediaColumns = `
id, kind, playlist_id, url, title, description,
status, archived_at, deleted_at, version,
available_formats, file_size, format, mime_type, storage_path, checksum,
storage_provider, hosting_location,
view_count, download_count, last_accessed_at,
drm_protected, drm_type, license_expiry_date, region_restrictions,
download_allowed, streaming_allowed,
artist, album, genre, music_duration_sec, released_at,
height_px, width_px, captured_at,
video_duration_sec, resolution, codec, frame_rate, uploaded_at,
created_at, updated_at`

type ContentReplacement struct {
	URL         string
	FileSize    int64
	Format      string
	MimeType    string
	StoragePath string
	Checksum    *string
}

func (r *MediaRepo) Create(ctx context.Context, item model.MediaItem) (model.MediaItem, error) {
	if r.pool == nil {
		return model.MediaItem{}, fmt.Errorf("postgres pool is nil")
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Version == 0 {
		item.Version = 1
	}

	var (
		artist, album, genre   *string
		musicDurationSec       *int
		releasedAt, capturedAt *time.Time
		heightPx, widthPx      *int
		videoDurationSec       *int
		resolution, codec      *string
		frameRate              *float64
		uploadedAt             *time.Time
	)
	switch {
	case item.Music != nil:
		artist = &item.Music.Artist
		album, genre = item.Music.Album, item.Music.Genre
		musicDurationSec = &item.Music.DurationSec
		releasedAt = item.Music.ReleasedAt
	case item.Photo != nil:
		heightPx, widthPx = &item.Photo.HeightPx, &item.Photo.WidthPx
		capturedAt = item.Photo.CapturedAt
	case item.Video != nil:
		videoDurationSec = item.Video.DurationSec
		resolution, codec = item.Video.Resolution, item.Video.Codec
		frameRate = item.Video.FrameRate
		uploadedAt = item.Video.UploadedAt
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO media_items (
	id, kind, playlist_id, url, title, description,
	status, version,
	available_formats, file_size, format, mime_type, storage_path, checksum,
	storage_provider, hosting_location,
	view_count, download_count,
	drm_protected, drm_type, license_expiry_date, region_restrictions,
	download_allowed, streaming_allowed,
	artist, album, genre, music_duration_sec, released_at,
	height_px, width_px, captured_at,
	video_duration_sec, resolution, codec, frame_rate, uploaded_at,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8,
	$9, $10, $11, $12, $13, $14,
	$15, $16,
	0, 0,
	$17, $18, $19, $20,
	$21, $22,
	$23, $24, $25, $26, $27,
	$28, $29, $30,
	$31, $32, $33, $34, $35,
	NOW(), NOW()
)
RETURNING created_at, updated_at
`,
		item.ID, item.Kind, item.PlaylistID, item.URL, item.Title, item.Description,
		item.Status, item.Version,
		item.AvailableFormats, item.FileSize, item.Format, item.MimeType, item.StoragePath, item.Checksum,
		item.StorageProvider, item.HostingLocation,
		item.DRMProtected, item.DRMType, item.LicenseExpiryDate, item.RegionRestrictions,
		item.DownloadAllowed, item.StreamingAllowed,
		artist, album, genre, musicDurationSec, releasedAt,
		heightPx, widthPx, capturedAt,
		videoDurationSec, resolution, codec, frameRate, uploadedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.MediaItem{}, errs.Conflictf("media unique constraint %s", constraintName(err))
		}
		return model.MediaItem{}, fmt.Errorf("insert media item: %w", err)
	}

	return item, nil
}

func (r *MediaRepo) GetByID(ctx context.Context, id uuid.UUID) (model.MediaItem, error) {
	if r.pool == nil {
		return model.MediaItem{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id = $1`, id)
	item, err := scanMediaItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MediaItem{}, errs.NotFoundf("media item %s", id)
		}
		return model.MediaItem{}, fmt.Errorf("get media item by id: %w", err)
	}

	return item, nil
}

// Archive moves an asset to archived. The status guard lives in the WHERE
// clause so a terminal asset never transitions, no matter who races whom.
func (r *MediaRepo) Archive(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.transition(ctx, id, `
UPDATE media_items
SET status = 'archived', archived_at = COALESCE(archived_at, $2), updated_at = NOW()
WHERE id = $1 AND status IN ('active', 'archived')
`, at)
}

// SoftDelete moves an asset to the terminal deleted status.
func (r *MediaRepo) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.transition(ctx, id, `
UPDATE media_items
SET status = 'deleted', deleted_at = $2, updated_at = NOW()
WHERE id = $1 AND status IN ('active', 'archived')
`, at)
}

func (r *MediaRepo) transition(ctx context.Context, id uuid.UUID, query string, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, query, id, at.UTC())
	if err != nil {
		return fmt.Errorf("media status transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFoundf("media item %s", id)
		}
		return errs.InvalidStatef("media item %s is deleted", id)
	}

	return nil
}

// ReplaceContent swaps the stored bytes' metadata and bumps version by
// exactly one in the same statement. Deleted assets never get new content.
func (r *MediaRepo) ReplaceContent(ctx context.Context, id uuid.UUID, content ContentReplacement) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var version int
	err := r.pool.QueryRow(ctx, `
UPDATE media_items
SET url = $2, file_size = $3, format = $4, mime_type = $5,
	storage_path = $6, checksum = $7,
	version = version + 1, updated_at = NOW()
WHERE id = $1 AND status <> 'deleted'
RETURNING version
`,
		id, content.URL, content.FileSize, content.Format, content.MimeType,
		content.StoragePath, content.Checksum,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, err := r.exists(ctx, id)
			if err != nil {
				return 0, err
			}
			if !exists {
				return 0, errs.NotFoundf("media item %s", id)
			}
			return 0, errs.InvalidStatef("media item %s is deleted", id)
		}
		return 0, fmt.Errorf("replace media content: %w", err)
	}

	return version, nil
}

// IncrementViewCount bumps the counter in a single UPDATE so concurrent
// accessors never lose each other's increments.
func (r *MediaRepo) IncrementViewCount(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	return r.increment(ctx, id, "view_count", at)
}

func (r *MediaRepo) IncrementDownloadCount(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	return r.increment(ctx, id, "download_count", at)
}

func (r *MediaRepo) increment(ctx context.Context, id uuid.UUID, column string, at time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `
UPDATE media_items
SET `+column+` = `+column+` + 1, last_accessed_at = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+column, id, at.UTC()).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.NotFoundf("media item %s", id)
		}
		return 0, fmt.Errorf("increment media %s: %w", column, err)
	}

	return count, nil
}

// SetPlaylist attaches or detaches the item; a media item belongs to at most
// one playlist at a time.
func (r *MediaRepo) SetPlaylist(ctx context.Context, id uuid.UUID, playlistID *uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE media_items SET playlist_id = $2, updated_at = NOW() WHERE id = $1
`, id, playlistID)
	if err != nil {
		return fmt.Errorf("set media playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundf("media item %s", id)
	}

	return nil
}

func (r *MediaRepo) ListByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]model.MediaItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+mediaColumns+` FROM media_items WHERE playlist_id = $1 ORDER BY created_at
`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list media by playlist: %w", err)
	}
	defer rows.Close()

	return collectMediaItems(rows)
}

// ListDeletedBefore feeds the storage cleanup job.
func (r *MediaRepo) ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.MediaItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+mediaColumns+`
FROM media_items
WHERE status = 'deleted' AND deleted_at < $1
ORDER BY deleted_at
LIMIT $2
`, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list deleted media: %w", err)
	}
	defer rows.Close()

	return collectMediaItems(rows)
}

// Purge hard-deletes the row; only the cleanup job calls this, after the
// stored object is gone.
func (r *MediaRepo) Purge(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM media_items WHERE id = $1 AND status = 'deleted'`, id); err != nil {
		return fmt.Errorf("purge media item: %w", err)
	}

	return nil
}

func (r *MediaRepo) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM media_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check media exists: %w", err)
	}
	return exists, nil
}

func collectMediaItems(rows pgx.Rows) ([]model.MediaItem, error) {
	var items []model.MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMediaItem(row pgx.Row) (model.MediaItem, error) {
	var (
		item                   model.MediaItem
		artist, album, genre   *string
		musicDurationSec       *int
		releasedAt, capturedAt *time.Time
		heightPx, widthPx      *int
		videoDurationSec       *int
		resolution, codec      *string
		frameRate              *float64
		uploadedAt             *time.Time
	)

	err := row.Scan(
		&item.ID, &item.Kind, &item.PlaylistID, &item.URL, &item.Title, &item.Description,
		&item.Status, &item.ArchivedAt, &item.DeletedAt, &item.Version,
		&item.AvailableFormats, &item.FileSize, &item.Format, &item.MimeType, &item.StoragePath, &item.Checksum,
		&item.StorageProvider, &item.HostingLocation,
		&item.ViewCount, &item.DownloadCount, &item.LastAccessedAt,
		&item.DRMProtected, &item.DRMType, &item.LicenseExpiryDate, &item.RegionRestrictions,
		&item.DownloadAllowed, &item.StreamingAllowed,
		&artist, &album, &genre, &musicDurationSec, &releasedAt,
		&heightPx, &widthPx, &capturedAt,
		&videoDurationSec, &resolution, &codec, &frameRate, &uploadedAt,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return model.MediaItem{}, err
	}

	switch item.Kind {
	case enums.MediaKindMusic:
		attrs := model.MusicAttrs{Album: album, Genre: genre, ReleasedAt: releasedAt}
		if artist != nil {
			attrs.Artist = *artist
		}
		if musicDurationSec != nil {
			attrs.DurationSec = *musicDurationSec
		}
		item.Music = &attrs
	case enums.MediaKindPhoto:
		attrs := model.PhotoAttrs{CapturedAt: capturedAt}
		if heightPx != nil {
			attrs.HeightPx = *heightPx
		}
		if widthPx != nil {
			attrs.WidthPx = *widthPx
		}
		item.Photo = &attrs
	case enums.MediaKindVideo:
		item.Video = &model.VideoAttrs{
			DurationSec: videoDurationSec,
			Resolution:  resolution,
			Codec:       codec,
			FrameRate:   frameRate,
			UploadedAt:  uploadedAt,
		}
	}

	return item, nil
}
