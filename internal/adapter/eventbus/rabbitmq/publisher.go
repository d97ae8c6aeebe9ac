package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ledger-core/config"
	"ledger-core/internal/core/domain"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// amqpChannel is the slice of amqp091.Channel the publisher uses. It exists
// so the reopen-retry path can be exercised without a live broker.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	Close() error
}

type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

// amqpConn adapts *amqp091.Connection to amqpConnection.
type amqpConn struct {
	*amqp091.Connection
}

func (c amqpConn) Channel() (amqpChannel, error) {
	return c.Connection.Channel()
}

// Publisher implements ports.EventPublisher over a durable topic exchange.
// Publishing is fire-and-forget from the caller's point of view: the caller
// gets an error to log, never a reason to roll back.
type Publisher struct {
	conn     amqpConnection
	exchange string
	log      zerolog.Logger

	// mu guards channel. Publish swaps it on a channel fault, and one
	// Publisher is shared by every request goroutine.
	mu      sync.Mutex
	channel amqpChannel
}

// NewPublisher connects to RabbitMQ and declares the topic exchange.
func NewPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp091.DialConfig(cfg.URL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := declareExchange(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange: %w", err)
	}

	log.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ publisher connected")

	return &Publisher{
		conn:     amqpConn{conn},
		channel:  ch,
		exchange: cfg.Exchange,
		log:      log,
	}, nil
}

// Publish sends an event to the exchange under its routing key. On a channel
// fault it reopens the channel and retries once. The mutex covers the whole
// send-reopen-retry sequence so concurrent publishes never observe a
// half-swapped channel.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.send(ctx, event.RoutingKey(), body); err != nil {
		p.log.Warn().Err(err).Str("routing_key", event.RoutingKey()).Msg("publish failed, reopening channel")
		ch, chErr := p.conn.Channel()
		if chErr != nil {
			return fmt.Errorf("reopening channel: %w", chErr)
		}
		p.channel.Close()
		p.channel = ch
		if exErr := declareExchange(p.channel, p.exchange); exErr != nil {
			return fmt.Errorf("redeclaring exchange: %w", exErr)
		}
		if err := p.send(ctx, event.RoutingKey(), body); err != nil {
			return fmt.Errorf("publishing event: %w", err)
		}
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) send(ctx context.Context, routingKey string, body []byte) error {
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
}

func declareExchange(ch amqpChannel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

// NopPublisher is the fallback when RabbitMQ is unavailable at startup: the
// service keeps serving and event consumers simply see nothing.
type NopPublisher struct {
	log zerolog.Logger
}

// NewNopPublisher creates a no-op publisher that logs skipped events.
func NewNopPublisher(log zerolog.Logger) *NopPublisher {
	return &NopPublisher{log: log}
}

// Publish logs and drops the event.
func (p *NopPublisher) Publish(_ context.Context, event domain.Event) error {
	p.log.Warn().Str("routing_key", event.RoutingKey()).Msg("event publish skipped, no broker connection")
	return nil
}

// Close is a no-op.
func (p *NopPublisher) Close() {}
