package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/posts-service/internal/events"
)

// StartAuditWorker subscribes an audit logger to every account event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range events.AccountEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			fields := []zap.Field{
				zap.String("event_id", event.ID.String()),
				zap.String("event", string(event.Type)),
				zap.String("user_id", event.UserID.String()),
				zap.Time("at", event.Timestamp),
			}
			if event.ActorID != nil {
				fields = append(fields, zap.String("actor_id", event.ActorID.String()))
			}
			if event.Payload != nil {
				fields = append(fields, zap.Any("payload", event.Payload))
			}
			audit.Info("account event", fields...)
			return nil
		})
	}
}
