package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/usersvc/usersvc/internal/model"
)

// Consumer reads USER_CREATED events from the user.created queue.
type Consumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewConsumer dials the broker and declares the queue so the consumer can
// start before any publisher has run.
func NewConsumer(amqpURL string, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueUserCreated, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Consumer{
		conn:   conn,
		ch:     ch,
		logger: logger.With("component", "event.consumer"),
	}, nil
}

// Run consumes events until the context is cancelled, acking each message
// after it is handled. Malformed messages are acked and logged rather than
// redelivered forever.
func (c *Consumer) Run(ctx context.Context, handle func(model.UserCreatedEvent)) error {
	deliveries, err := c.ch.Consume(
		QueueUserCreated,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consumer started", "queue", QueueUserCreated)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var evt model.UserCreatedEvent
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				c.logger.Warn("dropping malformed event",
					"message_id", msg.MessageId,
					"error", err,
				)
				msg.Ack(false)
				continue
			}

			handle(evt)
			msg.Ack(false)
		}
	}
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() error {
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			c.conn.Close()
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	return c.conn.Close()
}
