package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gastocerto/internal/logger"
	"gastocerto/internal/uuid"
)

// Publisher announces ledger changes.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, msg *LedgerChanged) error
}

// NopPublisher drops every notice. It is used when no broker is configured.
type NopPublisher struct{}

// PublishLedgerChanged implements Publisher.
func (NopPublisher) PublishLedgerChanged(context.Context, *LedgerChanged) error { return nil }

// Client publishes to and consumes from a fanout exchange. Each client
// binds its own exclusive queue and ignores notices it published itself.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	origin       string
}

// NewClient dials url and declares the exchange and this instance's queue.
func NewClient(url, exchangeName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		origin:       uuid.New(),
	}

	if err := client.setup(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	c.queueName = q.Name

	if err := c.channel.QueueBind(c.queueName, "", c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishLedgerChanged implements Publisher.
func (c *Client) PublishLedgerChanged(ctx context.Context, msg *LedgerChanged) error {
	msg.Origin = c.origin
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,  // exchange
		msg.HouseholdID, // routing key, ignored by fanout
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   msg.OccurredAt,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Named("events").Debugw("published ledger change",
		"household_id", msg.HouseholdID,
		"operation", msg.Operation,
		"count", len(msg.TransactionIDs),
	)
	return nil
}

// ConsumeLedgerChanged calls handler for every notice published by other
// instances until ctx is done.
func (c *Client) ConsumeLedgerChanged(ctx context.Context, handler func(*LedgerChanged) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		true,        // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log := logger.Named("events")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := LedgerChangedFromJSON(delivery.Body)
			if err != nil {
				log.Errorw("failed to decode ledger change", "error", err)
				_ = delivery.Nack(false, false)
				continue
			}
			if msg.Origin == c.origin {
				_ = delivery.Ack(false)
				continue
			}

			if err := handler(msg); err != nil {
				log.Errorw("failed to handle ledger change", "household_id", msg.HouseholdID, "error", err)
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close releases the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
