// Package dispatch drains due pending notifications through a delivery
// gateway and finalizes each one as sent or failed.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/compress"
)

// Gateway delivers one notification over its channel. An error return marks
// the notification failed; nil marks it sent.
type Gateway interface {
	Deliver(ctx context.Context, n model.Notification, message string) error
}

// Service is the slice of the notification service the dispatcher needs.
type Service interface {
	ListDue(ctx context.Context, limit int) ([]model.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorLog string) error
}

type Job struct {
	notifications Service
	gateway       Gateway
	batchSize     int
	logger        *zap.Logger
}

func New(notifications Service, gateway Gateway, batchSize int, logger *zap.Logger) *Job {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		notifications: notifications,
		gateway:       gateway,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// Run processes one batch of due notifications. Losing the pending
// compare-and-swap to a concurrent dispatcher is not an error, just a skip.
func (j *Job) Run(ctx context.Context) error {
	if j.notifications == nil || j.gateway == nil {
		return nil
	}

	due, err := j.notifications.ListDue(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("list due notifications: %w", err)
	}

	sent, failed := 0, 0
	for _, n := range due {
		message, err := compress.Decompress(n.Message)
		if err != nil {
			j.logger.Error("notification body is unreadable",
				zap.Error(err), zap.String("notification_id", n.ID.String()))
			if err := j.finalizeFailed(ctx, n, "stored message is unreadable"); err != nil {
				return err
			}
			failed++
			continue
		}

		if err := j.gateway.Deliver(ctx, n, string(message)); err != nil {
			if err := j.finalizeFailed(ctx, n, err.Error()); err != nil {
				return err
			}
			failed++
			continue
		}

		if err := j.notifications.MarkSent(ctx, n.ID); err != nil {
			if errors.Is(err, errs.ErrInvalidState) {
				j.logger.Debug("notification finalized elsewhere",
					zap.String("notification_id", n.ID.String()))
				continue
			}
			return fmt.Errorf("mark notification sent: %w", err)
		}
		sent++
	}

	if sent > 0 || failed > 0 {
		j.logger.Info("notification dispatch completed",
			zap.Int("sent", sent), zap.Int("failed", failed))
	}
	return nil
}

func (j *Job) finalizeFailed(ctx context.Context, n model.Notification, reason string) error {
	if err := j.notifications.MarkFailed(ctx, n.ID, reason); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			j.logger.Debug("notification finalized elsewhere",
				zap.String("notification_id", n.ID.String()))
			return nil
		}
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}
