package consumer

import "context"

// Event types published by the auth service on its user lifecycle topic.
const (
	EventUserCreated = "user-created"
	EventUserDeleted = "user-deleted"
)

// UserEvent is a user lifecycle event from the auth service.
type UserEvent struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
	TsMs     int64  `json:"ts_ms"`
}

// UserEventHandler processes a decoded user lifecycle event. Handlers must
// be idempotent: the consumer may redeliver.
type UserEventHandler interface {
	HandleUserEvent(ctx context.Context, event *UserEvent) error
}

// UserEventConsumer manages the Kafka consumer lifecycle.
type UserEventConsumer interface {
	Start(ctx context.Context) error
	Close() error
}
