// Package cleanup purges soft-deleted media whose retention window has
// passed: first the stored object, then the database row.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type MediaStore interface {
	ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.MediaItem, error)
	Purge(ctx context.Context, id uuid.UUID) error
}

type ObjectStorage interface {
	Delete(ctx context.Context, key string) error
}

type Job struct {
	media     MediaStore
	storage   ObjectStorage
	retention time.Duration
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

func New(media MediaStore, storage ObjectStorage, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		media:     media,
		storage:   storage,
		retention: retention,
		batchSize: 100,
		now:       time.Now,
		logger:    logger,
	}
}

// Run purges one batch of expired media. A storage delete failure only logs;
// the row stays so the next run retries the object.
func (j *Job) Run(ctx context.Context) error {
	if j.media == nil || j.storage == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)
	expired, err := j.media.ListDeletedBefore(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("list expired media: %w", err)
	}

	if len(expired) == 0 {
		return nil
	}

	purged := 0
	for _, item := range expired {
		if item.StoragePath != "" {
			if err := j.storage.Delete(ctx, item.StoragePath); err != nil {
				j.logger.Warn("failed to delete expired media object",
					zap.Error(err), zap.String("object_key", item.StoragePath))
				continue
			}
		}
		if err := j.media.Purge(ctx, item.ID); err != nil {
			return fmt.Errorf("purge media row: %w", err)
		}
		purged++
	}

	j.logger.Info("cleanup expired media completed", zap.Int("purged", purged))
	return nil
}
