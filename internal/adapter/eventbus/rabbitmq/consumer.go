package rabbitmq

import (
	"fmt"

	"ledger-core/config"
	"ledger-core/internal/core/ports"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Consumer implements ports.EventConsumer: a durable queue bound to the
// topic exchange with manual acknowledgment. Delivery is at-least-once;
// handlers must be idempotent.
type Consumer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      zerolog.Logger
}

// NewConsumer connects to RabbitMQ for consuming.
func NewConsumer(cfg config.RabbitMQConfig, log zerolog.Logger) (*Consumer, error) {
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

	return &Consumer{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		log:      log,
	}, nil
}

// Consume binds a durable queue to the exchange with the routing key (topic
// wildcards allowed) and blocks processing deliveries. The handler's return
// decides ack or nack-with-requeue.
func (c *Consumer) Consume(queueName, routingKey string, handler ports.EventHandler) error {
	q, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, routingKey, c.exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name,
		"",    // consumer tag
		false, // auto-ack off, we ack manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("starting consume: %w", err)
	}

	c.log.Info().Str("queue", q.Name).Str("routing_key", routingKey).Msg("consuming events")

	for d := range msgs {
		c.log.Debug().Str("routing_key", d.RoutingKey).Msg("event received")
		if handler(d.Body) {
			if err := d.Ack(false); err != nil {
				c.log.Error().Err(err).Msg("acking message failed")
			}
		} else {
			if err := d.Nack(false, true); err != nil {
				c.log.Error().Err(err).Msg("nacking message failed")
			}
		}
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
