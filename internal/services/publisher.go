package services

import (
	"context"

	"plantcare-service/internal/event"
)

// EventPublisher dispatches care events outward. Satisfied by
// event.CarePublisher; faked in tests.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt event.CareEvent) error
}
