package apiapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/OkayJosh/wrappai/internal/domain/model"
)

// logGateway stands in for real channel providers behind dispatch.Gateway.
// It logs the delivery and reports success, which keeps the pending queue
// draining in environments without provider credentials.
type logGateway struct {
	logger *zap.Logger
}

func (g logGateway) Deliver(_ context.Context, n model.Notification, message string) error {
	g.logger.Info("notification delivered",
		zap.String("notification_id", n.ID.String()),
		zap.String("channel", string(n.Channel)),
		zap.Int("message_len", len(message)),
	)
	return nil
}
