package notification

import (
	"context"

	"go.uber.org/zap"
)

// Sink delivers a single outbox row to its destination. Implementations must
// be safe for concurrent use; the dispatcher may be triggered from both the
// cron schedule and the one-shot CLI.
type Sink interface {
	Deliver(ctx context.Context, notification *Notification) error
}

// ZapSink writes deliveries to the application log. It is the default sink
// until a real channel (mail, push) is configured.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a Sink that logs deliveries.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("notification-sink")}
}

var _ Sink = (*ZapSink)(nil)

func (s *ZapSink) Deliver(_ context.Context, notification *Notification) error {
	fields := []zap.Field{
		zap.String("notificationID", notification.ID.String()),
		zap.String("type", string(notification.Type)),
		zap.String("message", notification.Message),
	}
	if notification.UserID != nil {
		fields = append(fields, zap.String("userID", notification.UserID.String()))
	}
	if notification.Payload != nil {
		fields = append(fields, zap.Any("payload", map[string]interface{}(notification.Payload)))
	}
	s.logger.Info("Notification delivered", fields...)
	return nil
}
