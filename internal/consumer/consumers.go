// Package consumer wires event-bus subscriptions to domain reactions.
package consumer

import (
	"context"
	"encoding/json"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"

	"github.com/rs/zerolog"
)

// Queue names. Durable, so reactions survive a restart of this process.
const (
	ClientEventsQueue       = "ledger.client.events"
	NotificationEventsQueue = "ledger.notification.events"
)

// ClientEventConsumer reacts to client lifecycle events. Its one job today
// is the suspension cascade: a suspended client gets every ACTIVE account
// blocked. Blocking is idempotent, so at-least-once delivery is safe.
type ClientEventConsumer struct {
	accounts ports.AccountService
	log      zerolog.Logger
}

// NewClientEventConsumer creates a new ClientEventConsumer.
func NewClientEventConsumer(accounts ports.AccountService, log zerolog.Logger) *ClientEventConsumer {
	return &ClientEventConsumer{accounts: accounts, log: log}
}

// Run binds the client events queue and blocks consuming.
func (c *ClientEventConsumer) Run(bus ports.EventConsumer) error {
	return bus.Consume(ClientEventsQueue, domain.RoutingKeyClientSuspended, c.HandleSuspended)
}

// HandleSuspended processes one client.suspended delivery. A malformed
// payload is acked and dropped; requeueing it would just poison the queue.
func (c *ClientEventConsumer) HandleSuspended(body []byte) bool {
	var event domain.ClientSuspendedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.Error().Err(err).Msg("dropping malformed client.suspended event")
		return true
	}

	c.log.Info().
		Str("client_id", event.ClientID.String()).
		Str("reason", event.Reason).
		Msg("client suspended, blocking accounts")

	c.accounts.BlockAllForClient(context.Background(), event.ClientID)
	return true
}

// NotificationConsumer is a catch-all subscriber that turns every published
// event into a structured log line. It stands in for the outbound channels
// (mail, webhooks) that hang off the same exchange.
type NotificationConsumer struct {
	log zerolog.Logger
}

// NewNotificationConsumer creates a new NotificationConsumer.
func NewNotificationConsumer(log zerolog.Logger) *NotificationConsumer {
	return &NotificationConsumer{log: log}
}

// Run binds the notification queue to every event on the exchange.
func (c *NotificationConsumer) Run(bus ports.EventConsumer) error {
	return bus.Consume(NotificationEventsQueue, "#", c.Handle)
}

// Handle logs one delivery.
func (c *NotificationConsumer) Handle(body []byte) bool {
	c.log.Info().RawJSON("event", body).Msg("event notification")
	return true
}
