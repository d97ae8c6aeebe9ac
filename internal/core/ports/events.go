package ports

import (
	"context"

	"ledger-core/internal/core/domain"
)

// EventPublisher publishes committed domain events to the topic bus.
// Publication is fire-and-forget: a failure is logged by the caller, never
// propagated into the outcome of the already-committed state change.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close()
}

// EventHandler processes one delivered message. It returns true to ack, or
// false to nack and requeue. Delivery is at-least-once; handlers must be
// idempotent against redelivery.
type EventHandler func(body []byte) bool

// EventConsumer binds a queue to routing keys on the topic exchange and
// feeds deliveries to a handler, one message at a time.
type EventConsumer interface {
	Consume(queue, routingKey string, handler EventHandler) error
	Close()
}
